package todo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// todoAdapter wraps the module's ServiceContainer for type-safe cross-module
// calls. It implements the TodoPort interface.
type todoAdapter struct {
	container mono.ServiceContainer
}

// NewTodoAdapter creates an adapter over the todo module's service container.
func NewTodoAdapter(container mono.ServiceContainer) TodoPort {
	if container == nil {
		panic("todo adapter requires non-nil ServiceContainer")
	}
	return &todoAdapter{container: container}
}

// Create creates a new todo via the create-todo service.
func (a *todoAdapter) Create(ctx context.Context, req *CreateTodoRequest) (*TodoResponse, error) {
	var resp TodoResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"create-todo",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("create-todo service call failed: %w", err)
	}
	return &resp, nil
}

// Get retrieves a single owned todo via the get-todo service.
func (a *todoAdapter) Get(ctx context.Context, userID, todoID string) (*TodoResponse, error) {
	req := GetTodoRequest{UserID: userID, TodoID: todoID}
	var resp TodoResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-todo",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-todo service call failed: %w", err)
	}
	return &resp, nil
}

// Update applies a partial update via the update-todo service.
func (a *todoAdapter) Update(ctx context.Context, req *UpdateTodoRequest) (*TodoResponse, error) {
	var resp TodoResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"update-todo",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("update-todo service call failed: %w", err)
	}
	return &resp, nil
}

// Delete removes an owned todo via the delete-todo service.
func (a *todoAdapter) Delete(ctx context.Context, userID, todoID string) error {
	req := DeleteTodoRequest{UserID: userID, TodoID: todoID}
	var resp DeleteTodoResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"delete-todo",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("delete-todo service call failed: %w", err)
	}
	if !resp.Deleted {
		return fmt.Errorf("todo not deleted: %s", todoID)
	}
	return nil
}

// List fetches one page of todos via the list-todos service.
func (a *todoAdapter) List(ctx context.Context, userID string, params map[string]string) (*ListTodosResponse, error) {
	req := ListTodosRequest{UserID: userID, Params: params}
	var resp ListTodosResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-todos",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list-todos service call failed: %w", err)
	}
	return &resp, nil
}
