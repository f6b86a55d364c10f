package persistence

import (
	"github.com/erp/ordering/internal/domain/shared"
	"gorm.io/gorm"
)

// IncludeRegistry maps the include tokens an aggregate exposes to gorm
// association paths (dotted for nested navigations, e.g. "Items.Product").
type IncludeRegistry map[shared.Include]string

// NoIncludes is the registry for entities without navigations
var NoIncludes = IncludeRegistry{}

// Resolve returns the association path for each token. Unregistered tokens
// fail with InvalidOperation instead of being skipped.
func (r IncludeRegistry) Resolve(entity string, includes []shared.Include) ([]string, error) {
	paths := make([]string, 0, len(includes))
	for _, inc := range includes {
		path, ok := r[inc]
		if !ok {
			return nil, shared.NewInvalidOperationError("%s has no include %q", entity, inc)
		}
		if !containsString(paths, path) {
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// applyIncludes preloads each path. gorm issues one query per preload, so a
// list with several includes never builds a joined cross product.
func applyIncludes(q *gorm.DB, paths []string) *gorm.DB {
	for _, path := range paths {
		q = q.Preload(path)
	}
	return q
}
