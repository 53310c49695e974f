package todo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	domain "github.com/karimd18/maxiphy-todo-app/domain/todo"
	"gorm.io/gorm"
)

// dayPattern recognizes search terms that name a single calendar day.
var dayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Rank expressions keep enum sorting in declaration order; sorting the raw
// text columns would order HIGH < LOW < MEDIUM.
const (
	priorityRankExpr = "CASE priority WHEN 'LOW' THEN 0 WHEN 'MEDIUM' THEN 1 WHEN 'HIGH' THEN 2 END"
	statusRankExpr   = "CASE status WHEN 'PENDING' THEN 0 WHEN 'ACTIVE' THEN 1 WHEN 'COMPLETED' THEN 2 END"
)

// Repository handles todo persistence using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new todo repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the todos schema.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&domain.Todo{})
}

// Create saves a new todo.
func (r *Repository) Create(ctx context.Context, t *domain.Todo) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// FindByID retrieves a todo by its id. Callers are responsible for the
// ownership check; this lookup is id-only.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	var t domain.Todo
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	return &t, nil
}

// Save writes every column of an existing todo, including cleared ones.
// A partial Updates call would skip zero values and could never null out
// the due date or unpin an item.
func (r *Repository) Save(ctx context.Context, t *domain.Todo) error {
	result := r.db.WithContext(ctx).Save(t)
	if result.Error != nil {
		return fmt.Errorf("failed to save todo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a todo by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Todo{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete todo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of the caller's todos plus the total count of the
// filtered set. Count and fetch run in a single transaction so the meta
// total can never drift from the page contents under concurrent writes.
func (r *Repository) List(ctx context.Context, userID string, q *ListQuery) ([]domain.Todo, int64, error) {
	items := []domain.Todo{}
	var total int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := filtered(tx, userID, q).Count(&total).Error; err != nil {
			return fmt.Errorf("failed to count todos: %w", err)
		}
		return filtered(tx, userID, q).
			Order(orderClause(q.SortBy, q.SortDir)).
			Offset(q.Offset()).
			Limit(q.Limit()).
			Find(&items).Error
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list todos: %w", err)
	}

	return items, total, nil
}

// filtered builds the conjunctive predicate set for a list request. Every
// scope is anchored on the owning user; the search clause is the only OR.
func filtered(tx *gorm.DB, userID string, q *ListQuery) *gorm.DB {
	scope := tx.Model(&domain.Todo{}).Where("user_id = ?", userID)

	if q.Status != nil {
		scope = scope.Where("status = ?", *q.Status)
	}
	if q.PinnedOnly != nil && *q.PinnedOnly {
		scope = scope.Where("pinned = ?", true)
	}
	if q.From != nil {
		scope = scope.Where("date >= ?", *q.From)
	}
	if q.To != nil {
		scope = scope.Where("date <= ?", *q.To)
	}

	if q.Q != "" {
		like := "%" + escapeLike(strings.ToLower(q.Q)) + "%"
		if day, ok := parseDay(q.Q); ok {
			// A term shaped like a date matches either the description text
			// or any due date within that calendar day.
			return scope.Where(
				"(LOWER(description) LIKE ? ESCAPE '\\') OR (date >= ? AND date < ?)",
				like, day, day.AddDate(0, 0, 1),
			)
		}
		scope = scope.Where("LOWER(description) LIKE ? ESCAPE '\\'", like)
	}

	return scope
}

// orderClause builds the ORDER BY terms: the requested primary key followed
// by the fixed tie-break suffix. The suffix is appended regardless of the
// primary key so pinned items cluster first within any tie group.
func orderClause(by SortBy, dir SortDir) string {
	d := "ASC"
	if dir == SortDesc {
		d = "DESC"
	}

	terms := make([]string, 0, 4)
	switch by {
	case SortByPriority:
		terms = append(terms, priorityRankExpr+" "+d)
	case SortByStatus:
		terms = append(terms, statusRankExpr+" "+d)
	case SortByCreatedAt:
		terms = append(terms, "created_at "+d)
	case SortByPinned:
		terms = append(terms, "pinned "+d)
	default:
		terms = append(terms, "date "+d)
	}
	terms = append(terms, "pinned DESC", "pinned_at DESC", "created_at DESC")

	return strings.Join(terms, ", ")
}

// parseDay returns the UTC start of the calendar day named by q, if q is a
// well-formed date. Terms that only look like dates (2024-13-99) fall back
// to plain text search.
func parseDay(q string) (time.Time, bool) {
	if !dayPattern.MatchString(q) {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation("2006-01-02", q, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// escapeLike neutralizes LIKE wildcards in user-supplied search terms.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
