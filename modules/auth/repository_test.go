package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	domain "github.com/karimd18/maxiphy-todo-app/domain/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupUserRepo opens an in-memory database with the same gorm config the
// module uses, so driver errors translate the same way they do in production.
func setupUserRepo(t *testing.T) *UserRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return NewUserRepository(db)
}

func testUser(email string) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		ID:           uuid.New().String(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "not-a-real-hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo := setupUserRepo(t)

	if err := repo.Create(testUser("taken@example.com")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// A second insert with the same email must surface as ErrEmailInUse,
	// not as a raw driver constraint error. This is the path a register
	// racing past the EmailExists precheck takes.
	err := repo.Create(testUser("taken@example.com"))
	if err != ErrEmailInUse {
		t.Errorf("Create() with duplicate email = %v, want ErrEmailInUse", err)
	}
}

func TestUserRepository_Save_DuplicateEmail(t *testing.T) {
	repo := setupUserRepo(t)

	if err := repo.Create(testUser("first@example.com")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second := testUser("second@example.com")
	if err := repo.Create(second); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	second.Email = "first@example.com"
	if err := repo.Save(second); err != ErrEmailInUse {
		t.Errorf("Save() onto taken email = %v, want ErrEmailInUse", err)
	}
}
