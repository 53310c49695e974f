package todo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	domain "github.com/karimd18/maxiphy-todo-app/domain/todo"
)

// UserDirectory confirms that a user id refers to a real account.
type UserDirectory interface {
	ValidateUser(ctx context.Context, userID string) (bool, error)
}

// Service handles todo business logic. Every operation is anchored on the
// calling user; records owned by someone else behave as if they don't exist.
type Service struct {
	repo  *Repository
	users UserDirectory
}

// NewService creates a new todo Service. users may be nil, in which case
// owner existence is not verified on create.
func NewService(repo *Repository, users UserDirectory) *Service {
	return &Service{repo: repo, users: users}
}

// Create validates and stores a new todo owned by the caller.
func (s *Service) Create(ctx context.Context, req *CreateTodoRequest) (*domain.Todo, error) {
	if err := validateDescription(req.Description); err != nil {
		return nil, err
	}

	priority := domain.PriorityMedium
	if req.Priority != "" {
		p, err := domain.ParsePriority(req.Priority)
		if err != nil {
			return nil, invalidField("priority", "must be one of LOW, MEDIUM, HIGH")
		}
		priority = p
	}

	status := domain.StatusPending
	if req.Status != "" {
		st, err := domain.ParseStatus(req.Status)
		if err != nil {
			return nil, invalidField("status", "must be one of pending, active, completed")
		}
		status = st
	}

	var date *time.Time
	if req.Date != "" {
		t, err := parseISOTime(req.Date)
		if err != nil {
			return nil, invalidField("date", "must be an ISO-8601 date")
		}
		date = &t
	}

	if s.users != nil {
		valid, err := s.users.ValidateUser(ctx, req.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to validate user: %w", err)
		}
		if !valid {
			return nil, fmt.Errorf("invalid user: %s", req.UserID)
		}
	}

	now := time.Now()
	t := &domain.Todo{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		Description: req.Description,
		Priority:    priority,
		Status:      status,
		Date:        date,
		Pinned:      req.Pinned,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Pinned {
		t.PinnedAt = &now
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetOne fetches a single todo with the ownership check applied. A record
// owned by another user reads as not found.
func (s *Service) GetOne(ctx context.Context, userID, id string) (*domain.Todo, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, ErrNotFound
	}
	return t, nil
}

// List normalizes the raw parameters and returns one page of the caller's
// todos with pagination metadata.
func (s *Service) List(ctx context.Context, userID string, params map[string]string) ([]domain.Todo, *ListMeta, error) {
	q, err := ParseListQuery(params)
	if err != nil {
		return nil, nil, err
	}

	items, total, err := s.repo.List(ctx, userID, q)
	if err != nil {
		return nil, nil, err
	}

	meta := &ListMeta{
		Total:      total,
		Page:       q.Page,
		PageSize:   q.Limit(),
		TotalPages: q.TotalPages(total),
	}
	return items, meta, nil
}

// Update applies a partial update to an owned todo. The ownership check is
// re-evaluated here on every call; identity is per-request state.
func (s *Service) Update(ctx context.Context, req *UpdateTodoRequest) (*domain.Todo, error) {
	t, err := s.GetOne(ctx, req.UserID, req.TodoID)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		if err := validateDescription(*req.Description); err != nil {
			return nil, err
		}
		t.Description = *req.Description
	}

	if req.Priority != nil {
		p, err := domain.ParsePriority(*req.Priority)
		if err != nil {
			return nil, invalidField("priority", "must be one of LOW, MEDIUM, HIGH")
		}
		t.Priority = p
	}

	if req.Status != nil {
		st, err := domain.ParseStatus(*req.Status)
		if err != nil {
			return nil, invalidField("status", "must be one of pending, active, completed")
		}
		t.Status = st
	}

	if len(req.Date) > 0 {
		date, err := parseDateField(req.Date)
		if err != nil {
			return nil, err
		}
		t.Date = date
	}

	if req.Pinned != nil {
		now := time.Now()
		switch {
		case *req.Pinned && !t.Pinned:
			t.PinnedAt = &now
		case !*req.Pinned && t.Pinned:
			t.PinnedAt = nil
		}
		// Re-sending the current value leaves pinnedAt untouched.
		t.Pinned = *req.Pinned
	}

	t.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Remove deletes an owned todo.
func (s *Service) Remove(ctx context.Context, userID, id string) error {
	if _, err := s.GetOne(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func validateDescription(desc string) error {
	if n := utf8.RuneCountInString(desc); n < 1 || n > 500 {
		return invalidField("description", "must be between 1 and 500 characters")
	}
	return nil
}

// parseDateField interprets the tri-state date payload of an update:
// JSON null clears the due date, a string sets it.
func parseDateField(raw json.RawMessage) (*time.Time, error) {
	if string(raw) == "null" {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, invalidField("date", "must be an ISO-8601 date or null")
	}
	t, err := parseISOTime(s)
	if err != nil {
		return nil, invalidField("date", "must be an ISO-8601 date or null")
	}
	return &t, nil
}
