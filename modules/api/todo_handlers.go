package api

import (
	"github.com/gofiber/fiber/v2"
	domain "github.com/karimd18/maxiphy-todo-app/domain/user"
	"github.com/karimd18/maxiphy-todo-app/modules/todo"
)

// ListTodos returns one page of the caller's todos. Query parameters are
// forwarded to the todo module, which owns normalization and validation.
func (h *Handlers) ListTodos(c *fiber.Ctx) error {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	if !ok {
		return unauthenticated(c)
	}

	resp, err := h.todoPort.List(c.UserContext(), claims.UserID, c.Queries())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetTodo returns a single todo owned by the caller.
func (h *Handlers) GetTodo(c *fiber.Ctx) error {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	if !ok {
		return unauthenticated(c)
	}

	resp, err := h.todoPort.Get(c.UserContext(), claims.UserID, c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// CreateTodo creates a todo for the caller.
func (h *Handlers) CreateTodo(c *fiber.Ctx) error {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	if !ok {
		return unauthenticated(c)
	}

	var body CreateTodoBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	req := todo.CreateTodoRequest{
		UserID:      claims.UserID,
		Description: body.Description,
		Priority:    body.Priority,
		Date:        body.Date,
		Status:      body.Status,
		Pinned:      body.Pinned,
	}

	resp, err := h.todoPort.Create(c.UserContext(), &req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateTodo applies a partial update to a todo owned by the caller.
func (h *Handlers) UpdateTodo(c *fiber.Ctx) error {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	if !ok {
		return unauthenticated(c)
	}

	var body UpdateTodoBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	req := todo.UpdateTodoRequest{
		UserID:      claims.UserID,
		TodoID:      c.Params("id"),
		Description: body.Description,
		Priority:    body.Priority,
		Date:        body.Date,
		Status:      body.Status,
		Pinned:      body.Pinned,
	}

	resp, err := h.todoPort.Update(c.UserContext(), &req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteTodo removes a todo owned by the caller.
func (h *Handlers) DeleteTodo(c *fiber.Ctx) error {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	if !ok {
		return unauthenticated(c)
	}

	if err := h.todoPort.Delete(c.UserContext(), claims.UserID, c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
