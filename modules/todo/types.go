package todo

import (
	"context"
	"encoding/json"
	"time"

	domain "github.com/karimd18/maxiphy-todo-app/domain/todo"
)

// CreateTodoRequest is the request for creating a todo. UserID is the
// authenticated caller, never client-supplied.
type CreateTodoRequest struct {
	UserID      string `json:"userId"`
	Description string `json:"description"`
	Priority    string `json:"priority,omitempty"`
	Date        string `json:"date,omitempty"`
	Status      string `json:"status,omitempty"`
	Pinned      bool   `json:"pinned,omitempty"`
}

// GetTodoRequest is the request for fetching a single todo.
type GetTodoRequest struct {
	UserID string `json:"userId"`
	TodoID string `json:"todoId"`
}

// UpdateTodoRequest is a partial update. Nil pointers leave a field
// unchanged. Date is raw JSON so that an explicit null (clear the due date)
// stays distinct from an absent field (no change) across marshal boundaries.
type UpdateTodoRequest struct {
	UserID      string          `json:"userId"`
	TodoID      string          `json:"todoId"`
	Description *string         `json:"description,omitempty"`
	Priority    *string         `json:"priority,omitempty"`
	Date        json.RawMessage `json:"date,omitempty"`
	Status      *string         `json:"status,omitempty"`
	Pinned      *bool           `json:"pinned,omitempty"`
}

// DeleteTodoRequest is the request for deleting a todo.
type DeleteTodoRequest struct {
	UserID string `json:"userId"`
	TodoID string `json:"todoId"`
}

// DeleteTodoResponse is the response for deleting a todo.
type DeleteTodoResponse struct {
	Deleted bool `json:"deleted"`
}

// ListTodosRequest carries the caller identity and the raw query parameters;
// normalization happens inside the todo module.
type ListTodosRequest struct {
	UserID string            `json:"userId"`
	Params map[string]string `json:"params,omitempty"`
}

// TodoResponse is the API representation of a todo. Status uses the
// lowercase API spelling.
type TodoResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	Date        *time.Time `json:"date"`
	Pinned      bool       `json:"pinned"`
	PinnedAt    *time.Time `json:"pinnedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ListMeta is the pagination metadata for a list response.
type ListMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// ListTodosResponse is one page of todos plus its metadata.
type ListTodosResponse struct {
	Items []TodoResponse `json:"items"`
	Meta  ListMeta       `json:"meta"`
}

// TodoPort defines the interface driving adapters use to reach the todo
// module.
type TodoPort interface {
	Create(ctx context.Context, req *CreateTodoRequest) (*TodoResponse, error)
	Get(ctx context.Context, userID, todoID string) (*TodoResponse, error)
	Update(ctx context.Context, req *UpdateTodoRequest) (*TodoResponse, error)
	Delete(ctx context.Context, userID, todoID string) error
	List(ctx context.Context, userID string, params map[string]string) (*ListTodosResponse, error)
}

// toTodoResponse converts a domain Todo to its API representation.
func toTodoResponse(t *domain.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      t.Status.API(),
		Date:        t.Date,
		Pinned:      t.Pinned,
		PinnedAt:    t.PinnedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
