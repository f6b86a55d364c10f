package persistence

import (
	"reflect"

	"github.com/erp/ordering/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// buildWhere translates conditions into gorm clause expressions. Field names
// are resolved against the schema so only mapped columns reach the SQL.
func buildWhere(sch *schema.Schema, conds []shared.Condition) ([]clause.Expression, error) {
	exprs := make([]clause.Expression, 0, len(conds))
	for _, cond := range conds {
		field, err := lookupColumn(sch, cond.Field)
		if err != nil {
			return nil, err
		}
		column := clause.Column{Table: clause.CurrentTable, Name: field.DBName}

		switch cond.Op {
		case shared.OpEq, "":
			exprs = append(exprs, clause.Eq{Column: column, Value: cond.Value})
		case shared.OpNe:
			exprs = append(exprs, clause.Neq{Column: column, Value: cond.Value})
		case shared.OpGt:
			exprs = append(exprs, clause.Gt{Column: column, Value: cond.Value})
		case shared.OpGte:
			exprs = append(exprs, clause.Gte{Column: column, Value: cond.Value})
		case shared.OpLt:
			exprs = append(exprs, clause.Lt{Column: column, Value: cond.Value})
		case shared.OpLte:
			exprs = append(exprs, clause.Lte{Column: column, Value: cond.Value})
		case shared.OpIn:
			values, err := toValues(cond.Value)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, clause.IN{Column: column, Values: values})
		case shared.OpLike:
			exprs = append(exprs, clause.Like{Column: column, Value: cond.Value})
		case shared.OpIsNull:
			exprs = append(exprs, clause.Eq{Column: column, Value: nil})
		default:
			return nil, shared.NewInvalidOperationError("unsupported operator %q on %s.%s", cond.Op, sch.Name, field.Name)
		}
	}
	return exprs, nil
}

// toValues flattens a slice or array into the values of an IN list
func toValues(v any) ([]any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, shared.NewInvalidOperationError("IN condition needs a slice, got %T", v)
	}
	values := make([]any, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return values, nil
}

// applyWhere adds the filter of opts to the query
func applyWhere(q *gorm.DB, sch *schema.Schema, conds []shared.Condition) (*gorm.DB, error) {
	if len(conds) == 0 {
		return q, nil
	}
	exprs, err := buildWhere(sch, conds)
	if err != nil {
		return nil, err
	}
	return q.Clauses(clause.Where{Exprs: exprs}), nil
}

// applyOrder appends the sort terms in order
func applyOrder(q *gorm.DB, sch *schema.Schema, sorts []shared.Sort) (*gorm.DB, error) {
	for _, s := range sorts {
		field, err := lookupColumn(sch, s.Field)
		if err != nil {
			return nil, err
		}
		q = q.Order(clause.OrderByColumn{
			Column: clause.Column{Table: clause.CurrentTable, Name: field.DBName},
			Desc:   s.Desc,
		})
	}
	return q, nil
}

// applySelect restricts the selected columns. The primary key is always kept
// so that projected rows can still be tracked and used for includes.
func applySelect(q *gorm.DB, sch *schema.Schema, fields []string) (*gorm.DB, error) {
	if len(fields) == 0 {
		return q, nil
	}
	columns, err := lookupColumns(sch, fields)
	if err != nil {
		return nil, err
	}
	if pk := sch.PrioritizedPrimaryField; pk != nil && !containsString(columns, pk.DBName) {
		columns = append([]string{pk.DBName}, columns...)
	}
	return q.Select(columns), nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
