package todo

import (
	"fmt"
	"time"
)

// Status is the storage representation of a todo's state (uppercase).
// The API surface uses the lowercase spelling; ParseStatus and Status.API
// translate between the two.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
)

// ParseStatus maps an API status (lowercase) to its storage value.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "pending":
		return StatusPending, nil
	case "active":
		return StatusActive, nil
	case "completed":
		return StatusCompleted, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// API returns the lowercase API spelling of the status.
func (s Status) API() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	default:
		return ""
	}
}

// Rank returns the declaration-order rank of the status, used for sorting.
func (s Status) Rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusActive:
		return 1
	case StatusCompleted:
		return 2
	default:
		return 3
	}
}

// Priority is the urgency level of a todo. Unlike Status it is spelled the
// same way in storage and on the API surface.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ParsePriority validates a priority literal.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	default:
		return "", fmt.Errorf("unknown priority %q", s)
	}
}

// Rank returns the declaration-order rank of the priority, used for sorting.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	default:
		return 3
	}
}

// Todo is a user-owned todo record. Pinned and PinnedAt move together:
// pinned == true exactly when pinnedAt is non-nil.
type Todo struct {
	ID          string     `gorm:"primaryKey;type:text"`
	UserID      string     `gorm:"not null;type:text;index:idx_todos_user_query,priority:1"`
	Description string     `gorm:"not null;type:text"`
	Priority    Priority   `gorm:"not null;default:MEDIUM;type:text"`
	Status      Status     `gorm:"not null;default:PENDING;type:text;index:idx_todos_user_query,priority:2"`
	Date        *time.Time `gorm:"index:idx_todos_user_query,priority:4"`
	Pinned      bool       `gorm:"not null;default:false;index:idx_todos_user_query,priority:3"`
	PinnedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for the Todo entity.
func (Todo) TableName() string {
	return "todos"
}
