package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	domain "github.com/karimd18/maxiphy-todo-app/domain/user"
	"github.com/karimd18/maxiphy-todo-app/modules/cache"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrInvalidCredentials is returned when login credentials are invalid.
	// Unknown email and wrong password produce the same error on purpose.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidEmail is returned when email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrInvalidName is returned when the display name is empty or too long.
	ErrInvalidName = errors.New("name must be between 1 and 80 characters")
	// ErrWeakPassword is returned when password is too weak.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrPasswordTooLong is returned when password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
	// ErrWrongPassword is returned when the current password does not verify
	// on a password change.
	ErrWrongPassword = errors.New("current password is incorrect")
)

// AuthService handles authentication and account business logic.
type AuthService struct {
	repo   *UserRepository
	hasher *PasswordHasher
	jwt    *JWTManager
	cache  *cache.Cache
	group  singleflight.Group
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *UserRepository, hasher *PasswordHasher, jwt *JWTManager) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		jwt:    jwt,
	}
}

// SetCache wires an optional Redis cache for user lookups. Without it the
// service reads straight from the repository.
func (s *AuthService) SetCache(c *cache.Cache) {
	s.cache = c
}

// Register creates a new user account and signs it in.
func (s *AuthService) Register(_ context.Context, name, email, password string) (*domain.User, *domain.TokenPair, error) {
	if n := utf8.RuneCountInString(name); n < 1 || n > 80 {
		return nil, nil, ErrInvalidName
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil, ErrInvalidEmail
	}
	if err := validatePassword(password); err != nil {
		return nil, nil, err
	}

	exists, err := s.repo.EmailExists(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, nil, ErrEmailInUse
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.generateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Login authenticates a user and returns the account plus fresh tokens.
func (s *AuthService) Login(_ context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// RefreshTokens generates new access and refresh tokens.
func (s *AuthService) RefreshTokens(_ context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	// Verify user still exists
	user, err := s.repo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return s.generateTokenPair(user.ID, user.Email)
}

// ValidateToken validates an access token and returns claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	return &domain.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}

// GetUser retrieves a user by ID, cache-aside when a cache is wired.
// Concurrent misses for the same id collapse into one repository read.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if s.cache == nil {
		return s.repo.FindByID(userID)
	}

	var cached domain.User
	hit, err := s.cache.Get(ctx, userID, &cached)
	if err != nil {
		log.Printf("[auth] cache read failed for user %s: %v", userID, err)
	} else if hit {
		return &cached, nil
	}

	v, err, _ := s.group.Do(userID, func() (any, error) {
		user, err := s.repo.FindByID(userID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, userID, user); err != nil {
			log.Printf("[auth] cache write failed for user %s: %v", userID, err)
		}
		return user, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.User), nil
}

// UpdateUser updates the caller's profile. A nil field is left unchanged.
func (s *AuthService) UpdateUser(_ context.Context, userID string, name, email *string) (*domain.User, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		if n := utf8.RuneCountInString(*name); n < 1 || n > 80 {
			return nil, ErrInvalidName
		}
		user.Name = *name
	}

	if email != nil {
		if _, err := mail.ParseAddress(*email); err != nil {
			return nil, ErrInvalidEmail
		}
		taken, err := s.repo.EmailTakenByOther(*email, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, ErrEmailInUse
		}
		user.Email = *email
	}

	user.UpdatedAt = time.Now()
	if err := s.repo.Save(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.invalidateUser(userID)
	return user, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *AuthService) ChangePassword(_ context.Context, userID, current, next string) error {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(current, user.PasswordHash) {
		return ErrWrongPassword
	}
	if err := validatePassword(next); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	if err := s.repo.Save(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.invalidateUser(userID)
	return nil
}

func (s *AuthService) invalidateUser(userID string) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("[auth] cache invalidation failed for user %s: %v", userID, err)
	}
}

// validatePassword enforces the 8..72 byte window; the upper bound is
// bcrypt's input limit.
func validatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	return nil
}

// generateTokenPair generates both access and refresh tokens.
func (s *AuthService) generateTokenPair(userID, email string) (*domain.TokenPair, error) {
	accessToken, err := s.jwt.GenerateAccessToken(userID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwt.GenerateRefreshToken(userID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.jwt.AccessTokenDuration(),
		TokenType:    "Bearer",
	}, nil
}
