package auth

import (
	"time"

	domain "github.com/karimd18/maxiphy-todo-app/domain/user"
)

// UserPayload is the safe (hash-free) representation of a user account.
type UserPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

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

// SessionResponse is returned by register and login: the signed-in account
// plus its token pair.
type SessionResponse struct {
	User         UserPayload `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int64       `json:"expiresIn"`
	TokenType    string      `json:"tokenType"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse represents a token refresh response.
type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

// ValidateTokenRequest represents a token validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse represents a token validation response.
type ValidateTokenResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ValidateUserRequest asks whether a user id refers to a real account.
type ValidateUserRequest struct {
	UserID string `json:"userId"`
}

// ValidateUserResponse reports account existence.
type ValidateUserResponse struct {
	Valid bool `json:"valid"`
}

// GetUserRequest represents a get user request.
type GetUserRequest struct {
	UserID string `json:"userId"`
}

// UpdateUserRequest is a partial profile update.
type UpdateUserRequest struct {
	UserID string  `json:"userId"`
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
}

// ChangePasswordRequest carries a password rotation.
type ChangePasswordRequest struct {
	UserID          string `json:"userId"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePasswordResponse acknowledges a password rotation.
type ChangePasswordResponse struct {
	Success bool `json:"success"`
}

// toUserPayload strips the password hash off a user record.
func toUserPayload(u *domain.User) UserPayload {
	return UserPayload{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
