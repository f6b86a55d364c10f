package persistence

import (
	"fmt"

	"github.com/erp/ordering/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// parseSchema returns the gorm schema for model, using the db's schema cache
func parseSchema(db *gorm.DB, model any) (*schema.Schema, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return nil, fmt.Errorf("failed to parse schema for %T: %w", model, err)
	}
	return stmt.Schema, nil
}

// lookupColumn resolves a Go field name (or column name) to a mapped column
func lookupColumn(sch *schema.Schema, name string) (*schema.Field, error) {
	field := sch.LookUpField(name)
	if field == nil || field.DBName == "" {
		return nil, shared.NewInvalidOperationError("%s has no column for field %q", sch.Name, name)
	}
	return field, nil
}

// lookupColumns resolves every name, failing on the first unknown one
func lookupColumns(sch *schema.Schema, names []string) ([]string, error) {
	columns := make([]string, 0, len(names))
	for _, name := range names {
		field, err := lookupColumn(sch, name)
		if err != nil {
			return nil, err
		}
		columns = append(columns, field.DBName)
	}
	return columns, nil
}
