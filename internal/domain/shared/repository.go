package shared

import (
	"context"
)

// Repository is the storage-agnostic CRUD and query contract for one entity
// type. Writes (Add, Update, UpdateFields, Delete) are only staged; they reach
// the store when the owning unit of work saves. Bulk operations (UpdateMany,
// DeleteMany) run server-side immediately.
type Repository[T any] interface {
	// Find looks up an entity by primary key. A missing row yields (nil, nil).
	Find(ctx context.Context, id uint) (*T, error)
	// GetEntity returns the first entity matching the options, or (nil, nil).
	GetEntity(ctx context.Context, opts ...QueryOption) (*T, error)
	GetList(ctx context.Context, opts ...QueryOption) ([]T, error)
	GetListPaginated(ctx context.Context, page, pageSize int, opts ...QueryOption) (*Paginated[T], error)

	Add(ctx context.Context, entity *T) (*T, error)
	Update(entity *T) *T
	// UpdateFields stages a write of only the named fields. It fails with an
	// InvalidOperation error, staging nothing, if any field is unknown or
	// protected.
	UpdateFields(ctx context.Context, entity *T, fields ...string) (*T, error)
	UpdateMany(ctx context.Context, where []Condition, values map[string]any) (int64, error)
	Delete(entity *T)
	DeleteMany(ctx context.Context, where ...Condition) (int64, error)

	// FromSQL runs a parameterized raw query. Results are never tracked.
	FromSQL(ctx context.Context, query string, args ...any) ([]T, error)
	Exists(ctx context.Context, where ...Condition) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// Paginated represents a page of results plus the size of the full filtered set
type Paginated[T any] struct {
	Results     []T   `json:"results"`
	RowsCount   int64 `json:"rows_count"`
	PageCount   int   `json:"page_count"`
	PageSize    int   `json:"page_size"`
	CurrentPage int   `json:"current_page"`
}

// NewPaginated creates a new paginated result. PageCount is ceil(rows/pageSize).
func NewPaginated[T any](results []T, rowsCount int64, currentPage, pageSize int) Paginated[T] {
	if results == nil {
		results = []T{}
	}
	return Paginated[T]{
		Results:     results,
		RowsCount:   rowsCount,
		PageCount:   PageCount(rowsCount, pageSize),
		PageSize:    pageSize,
		CurrentPage: currentPage,
	}
}

// PageCount returns the number of pages needed to hold rowsCount rows
func PageCount(rowsCount int64, pageSize int) int {
	if pageSize <= 0 || rowsCount <= 0 {
		return 0
	}
	pages := rowsCount / int64(pageSize)
	if rowsCount%int64(pageSize) > 0 {
		pages++
	}
	return int(pages)
}

// MapPaginated converts the results of a page while keeping its counters
func MapPaginated[T, R any](p *Paginated[T], fn func(T) R) Paginated[R] {
	out := make([]R, len(p.Results))
	for i, item := range p.Results {
		out[i] = fn(item)
	}
	return Paginated[R]{
		Results:     out,
		RowsCount:   p.RowsCount,
		PageCount:   p.PageCount,
		PageSize:    p.PageSize,
		CurrentPage: p.CurrentPage,
	}
}
