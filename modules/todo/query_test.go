package todo

import (
	"errors"
	"testing"
	"time"

	domain "github.com/karimd18/maxiphy-todo-app/domain/todo"
)

func TestParseListQuery_Defaults(t *testing.T) {
	q, err := ParseListQuery(map[string]string{})
	if err != nil {
		t.Fatalf("ParseListQuery() error = %v", err)
	}

	if q.SortBy != SortByDate {
		t.Errorf("SortBy = %v, want %v", q.SortBy, SortByDate)
	}
	if q.SortDir != SortAsc {
		t.Errorf("SortDir = %v, want %v", q.SortDir, SortAsc)
	}
	if q.Page != 1 {
		t.Errorf("Page = %v, want 1", q.Page)
	}
	if q.PageSize != 10 {
		t.Errorf("PageSize = %v, want 10", q.PageSize)
	}
	if q.Status != nil {
		t.Errorf("Status = %v, want nil", *q.Status)
	}
	if q.PinnedOnly != nil {
		t.Errorf("PinnedOnly = %v, want nil", *q.PinnedOnly)
	}
	if q.Q != "" {
		t.Errorf("Q = %q, want empty", q.Q)
	}
}

func TestParseListQuery_Status(t *testing.T) {
	q, err := ParseListQuery(map[string]string{"status": "active"})
	if err != nil {
		t.Fatalf("ParseListQuery() error = %v", err)
	}
	if q.Status == nil || *q.Status != domain.StatusActive {
		t.Errorf("Status = %v, want %v", q.Status, domain.StatusActive)
	}
}

func TestParseListQuery_InvalidEnums(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		field  string
	}{
		{
			name:   "unknown status",
			params: map[string]string{"status": "done"},
			field:  "status",
		},
		{
			name:   "uppercase status is not an API value",
			params: map[string]string{"status": "ACTIVE"},
			field:  "status",
		},
		{
			name:   "status all is not a value",
			params: map[string]string{"status": "all"},
			field:  "status",
		},
		{
			name:   "unknown sortBy",
			params: map[string]string{"sortBy": "description"},
			field:  "sortBy",
		},
		{
			name:   "unknown sortDir",
			params: map[string]string{"sortDir": "descending"},
			field:  "sortDir",
		},
		{
			name:   "malformed from",
			params: map[string]string{"from": "yesterday"},
			field:  "from",
		},
		{
			name:   "malformed to",
			params: map[string]string{"to": "2024-13-99"},
			field:  "to",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseListQuery(tt.params)
			if err == nil {
				t.Fatal("ParseListQuery() should return error")
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestParseListQuery_PageFloors(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		field  string
	}{
		{"page zero", map[string]string{"page": "0"}, "page"},
		{"negative page", map[string]string{"page": "-3"}, "page"},
		{"non-integer page", map[string]string{"page": "two"}, "page"},
		{"pageSize zero", map[string]string{"pageSize": "0"}, "pageSize"},
		{"negative pageSize", map[string]string{"pageSize": "-1"}, "pageSize"},
		{"fractional pageSize", map[string]string{"pageSize": "2.5"}, "pageSize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseListQuery(tt.params)
			if err == nil {
				t.Fatal("ParseListQuery() should reject values below the floor")
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestParseListQuery_PinnedOnly(t *testing.T) {
	tests := []struct {
		value string
		want  *bool
	}{
		{"true", boolPtr(true)},
		{"1", boolPtr(true)},
		{"TRUE", boolPtr(true)},
		{"false", boolPtr(false)},
		{"0", boolPtr(false)},
		{"", nil},
		{"yes", nil}, // unrecognized spellings mean "not set", not an error
		{"maybe", nil},
	}

	for _, tt := range tests {
		t.Run("pinnedOnly="+tt.value, func(t *testing.T) {
			q, err := ParseListQuery(map[string]string{"pinnedOnly": tt.value})
			if err != nil {
				t.Fatalf("ParseListQuery() error = %v", err)
			}

			switch {
			case tt.want == nil && q.PinnedOnly != nil:
				t.Errorf("PinnedOnly = %v, want nil", *q.PinnedOnly)
			case tt.want != nil && q.PinnedOnly == nil:
				t.Errorf("PinnedOnly = nil, want %v", *tt.want)
			case tt.want != nil && *q.PinnedOnly != *tt.want:
				t.Errorf("PinnedOnly = %v, want %v", *q.PinnedOnly, *tt.want)
			}
		})
	}
}

func TestParseListQuery_DateWindow(t *testing.T) {
	q, err := ParseListQuery(map[string]string{
		"from": "2024-05-01",
		"to":   "2024-06-01T12:30:00Z",
	})
	if err != nil {
		t.Fatalf("ParseListQuery() error = %v", err)
	}

	wantFrom := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if q.From == nil || !q.From.Equal(wantFrom) {
		t.Errorf("From = %v, want %v", q.From, wantFrom)
	}

	wantTo := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	if q.To == nil || !q.To.Equal(wantTo) {
		t.Errorf("To = %v, want %v", q.To, wantTo)
	}
}

func TestListQuery_OffsetAndLimit(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		wantOffset int
		wantLimit  int
	}{
		{"first page", 1, 10, 0, 10},
		{"third page", 3, 10, 20, 10},
		{"custom page size", 2, 25, 25, 25},
		{"zero page floors offset", 0, 10, 0, 10},
		{"zero size floors limit", 1, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &ListQuery{Page: tt.page, PageSize: tt.pageSize}
			if got := q.Offset(); got != tt.wantOffset {
				t.Errorf("Offset() = %v, want %v", got, tt.wantOffset)
			}
			if got := q.Limit(); got != tt.wantLimit {
				t.Errorf("Limit() = %v, want %v", got, tt.wantLimit)
			}
		})
	}
}

func TestListQuery_TotalPages(t *testing.T) {
	tests := []struct {
		name     string
		pageSize int
		total    int64
		want     int
	}{
		{"empty set still has one page", 10, 0, 1},
		{"exact fit", 10, 30, 3},
		{"partial last page", 10, 31, 4},
		{"single item", 10, 1, 1},
		{"page size one", 1, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &ListQuery{Page: 1, PageSize: tt.pageSize}
			if got := q.TotalPages(tt.total); got != tt.want {
				t.Errorf("TotalPages(%d) = %v, want %v", tt.total, got, tt.want)
			}
		})
	}
}

func boolPtr(v bool) *bool { return &v }
