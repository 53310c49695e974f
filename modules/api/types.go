package api

import (
	"encoding/json"
	"time"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents a token refresh request. The token may also
// arrive in the "token" cookie, in which case the body is optional.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenResponse represents an authentication token response.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

// UserResponse represents a user response.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionResponse is returned by register and login.
type SessionResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn"`
	TokenType    string       `json:"tokenType"`
}

// UpdateProfileRequest is a partial profile update.
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// ChangePasswordRequest carries a password rotation.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// CreateTodoBody is the client payload for creating a todo.
type CreateTodoBody struct {
	Description string `json:"description"`
	Priority    string `json:"priority,omitempty"`
	Date        string `json:"date,omitempty"`
	Status      string `json:"status,omitempty"`
	Pinned      bool   `json:"pinned,omitempty"`
}

// UpdateTodoBody is the client payload for a partial todo update. Date is
// kept raw so an explicit null (clear the due date) stays distinct from an
// absent field (no change).
type UpdateTodoBody struct {
	Description *string         `json:"description,omitempty"`
	Priority    *string         `json:"priority,omitempty"`
	Date        json.RawMessage `json:"date,omitempty"`
	Status      *string         `json:"status,omitempty"`
	Pinned      *bool           `json:"pinned,omitempty"`
}

// ErrorResponse represents an error response. Field is set for validation
// errors that concern a single input field.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
