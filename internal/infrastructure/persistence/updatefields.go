package persistence

import (
	"github.com/erp/ordering/internal/domain/shared"
	"gorm.io/gorm/schema"
)

// ValidateUpdateFields checks a partial-update field mask against the entity
// schema and returns the column names to write. It fails with an
// InvalidOperation error if the mask is empty, names something that is not a
// mapped column, or names a protected field: the BaseEntity identity and audit
// fields, or anything the schema marks as key, generated or not updatable.
// It has no side effects.
func ValidateUpdateFields(sch *schema.Schema, fields []string) ([]string, error) {
	if len(fields) == 0 {
		return nil, shared.NewInvalidOperationError("no fields given for partial update of %s", sch.Name)
	}

	columns := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, name := range fields {
		field := sch.LookUpField(name)
		if field == nil || field.DBName == "" {
			return nil, shared.NewInvalidOperationError("%s has no updatable field %q", sch.Name, name)
		}
		if IsProtectedField(field) {
			return nil, shared.NewInvalidOperationError("field %q of %s cannot be updated", field.Name, sch.Name)
		}
		if _, dup := seen[field.DBName]; dup {
			continue
		}
		seen[field.DBName] = struct{}{}
		columns = append(columns, field.DBName)
	}
	return columns, nil
}

// IsProtectedField reports whether a field is owned by the store
func IsProtectedField(field *schema.Field) bool {
	if _, ok := shared.ProtectedFields[field.Name]; ok {
		return true
	}
	return field.PrimaryKey ||
		field.AutoIncrement ||
		!field.Updatable ||
		field.AutoCreateTime > 0 ||
		field.AutoUpdateTime > 0
}
