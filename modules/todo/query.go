package todo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	domain "github.com/karimd18/maxiphy-todo-app/domain/todo"
)

// SortBy selects the primary sort key for a list request.
type SortBy string

const (
	SortByDate      SortBy = "date"
	SortByPriority  SortBy = "priority"
	SortByStatus    SortBy = "status"
	SortByCreatedAt SortBy = "createdAt"
	SortByPinned    SortBy = "pinned"
)

// SortDir selects the sort direction for the primary key.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

const (
	// DefaultPage is the page used when the parameter is absent.
	DefaultPage = 1
	// DefaultPageSize is the page size used when the parameter is absent.
	DefaultPageSize = 10
)

// ListQuery is the validated, typed form of a list request.
// Zero-config callers get date/asc ordering and the first ten items.
type ListQuery struct {
	Q          string
	Status     *domain.Status
	SortBy     SortBy
	SortDir    SortDir
	Page       int
	PageSize   int
	From       *time.Time
	To         *time.Time
	PinnedOnly *bool
}

// ParseListQuery normalizes raw query parameters into a ListQuery.
// Invalid enum values and integers below their floor are rejected with a
// ValidationError naming the offending field, never clamped.
func ParseListQuery(raw map[string]string) (*ListQuery, error) {
	q := &ListQuery{
		Q:        strings.TrimSpace(raw["q"]),
		SortBy:   SortByDate,
		SortDir:  SortAsc,
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}

	if s := raw["status"]; s != "" {
		st, err := domain.ParseStatus(s)
		if err != nil {
			return nil, invalidField("status", "must be one of pending, active, completed")
		}
		q.Status = &st
	}

	if s := raw["sortBy"]; s != "" {
		switch SortBy(s) {
		case SortByDate, SortByPriority, SortByStatus, SortByCreatedAt, SortByPinned:
			q.SortBy = SortBy(s)
		default:
			return nil, invalidField("sortBy", "must be one of date, priority, status, createdAt, pinned")
		}
	}

	if s := raw["sortDir"]; s != "" {
		switch SortDir(s) {
		case SortAsc, SortDesc:
			q.SortDir = SortDir(s)
		default:
			return nil, invalidField("sortDir", "must be asc or desc")
		}
	}

	var err error
	if q.Page, err = parsePositiveInt(raw["page"], "page", DefaultPage); err != nil {
		return nil, err
	}
	if q.PageSize, err = parsePositiveInt(raw["pageSize"], "pageSize", DefaultPageSize); err != nil {
		return nil, err
	}

	if s := raw["from"]; s != "" {
		t, err := parseISOTime(s)
		if err != nil {
			return nil, invalidField("from", "must be an ISO-8601 date")
		}
		q.From = &t
	}
	if s := raw["to"]; s != "" {
		t, err := parseISOTime(s)
		if err != nil {
			return nil, invalidField("to", "must be an ISO-8601 date")
		}
		q.To = &t
	}

	q.PinnedOnly = parseOptionalBool(raw["pinnedOnly"])

	return q, nil
}

// Offset returns the number of records to skip for the requested page.
func (q *ListQuery) Offset() int {
	skip := (q.Page - 1) * q.PageSize
	if skip < 0 {
		return 0
	}
	return skip
}

// Limit returns the page size floored at one record.
func (q *ListQuery) Limit() int {
	if q.PageSize < 1 {
		return 1
	}
	return q.PageSize
}

// TotalPages computes the page count for a filtered total. An empty result
// set still has one page.
func (q *ListQuery) TotalPages(total int64) int {
	take := int64(q.Limit())
	pages := (total + take - 1) / take
	if pages < 1 {
		return 1
	}
	return int(pages)
}

func parsePositiveInt(s, field string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, invalidField(field, fmt.Sprintf("must be an integer >= 1, got %q", s))
	}
	return n, nil
}

// parseOptionalBool accepts the loose boolean spellings used by the query
// string surface: "true"/"1" and "false"/"0" (case-insensitive). Anything
// else, including the empty string, means "not set".
func parseOptionalBool(s string) *bool {
	switch strings.ToLower(s) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	default:
		return nil
	}
}

// parseISOTime accepts RFC 3339 timestamps and bare YYYY-MM-DD dates.
// Date-only values resolve to midnight UTC.
func parseISOTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}
