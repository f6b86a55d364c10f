package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/ordering/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// GormRepository implements shared.Repository for any gorm-mapped entity.
// Writes are staged on the session and reach the store on SaveChanges.
type GormRepository[T any] struct {
	session  *Session
	schema   *schema.Schema
	includes IncludeRegistry
}

// NewGormRepository creates a repository for T bound to session
func NewGormRepository[T any](session *Session, includes IncludeRegistry) (*GormRepository[T], error) {
	sch, err := parseSchema(session.db, new(T))
	if err != nil {
		return nil, err
	}
	if sch.PrioritizedPrimaryField == nil {
		return nil, fmt.Errorf("%s has no primary key", sch.Name)
	}
	if includes == nil {
		includes = NoIncludes
	}
	return &GormRepository[T]{session: session, schema: sch, includes: includes}, nil
}

// Schema returns the parsed gorm schema of T
func (r *GormRepository[T]) Schema() *schema.Schema {
	return r.schema
}

// query builds a read with the filter, projection and includes of opts.
// Ordering is left to the caller.
func (r *GormRepository[T]) query(ctx context.Context, o shared.QueryOptions) (*gorm.DB, error) {
	db, err := r.session.DB(ctx)
	if err != nil {
		return nil, err
	}
	q := db.Model(new(T))

	if q, err = applyWhere(q, r.schema, o.Where); err != nil {
		return nil, err
	}
	if q, err = applySelect(q, r.schema, o.Select); err != nil {
		return nil, err
	}
	paths, err := r.includes.Resolve(r.schema.Name, o.Includes)
	if err != nil {
		return nil, err
	}
	return applyIncludes(q, paths), nil
}

// Find looks up an entity by primary key. The result is tracked.
func (r *GormRepository[T]) Find(ctx context.Context, id uint) (*T, error) {
	db, err := r.session.DB(ctx)
	if err != nil {
		return nil, err
	}

	var entity T
	pk := clause.Column{Table: clause.CurrentTable, Name: r.schema.PrioritizedPrimaryField.DBName}
	if err := db.Where(clause.Eq{Column: pk, Value: id}).Take(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	r.session.track(ctx, &entity, r.schema)
	return &entity, nil
}

// GetEntity returns the first match, or nil when nothing matches
func (r *GormRepository[T]) GetEntity(ctx context.Context, opts ...shared.QueryOption) (*T, error) {
	o := shared.NewQueryOptions(opts...)
	q, err := r.query(ctx, o)
	if err != nil {
		return nil, err
	}
	if q, err = applyOrder(q, r.schema, o.OrderBy); err != nil {
		return nil, err
	}

	var entity T
	if err := q.First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if o.Tracking {
		r.session.track(ctx, &entity, r.schema)
	}
	return &entity, nil
}

// GetList returns every match, sorted after filtering
func (r *GormRepository[T]) GetList(ctx context.Context, opts ...shared.QueryOption) ([]T, error) {
	o := shared.NewQueryOptions(opts...)
	q, err := r.query(ctx, o)
	if err != nil {
		return nil, err
	}
	if q, err = applyOrder(q, r.schema, o.OrderBy); err != nil {
		return nil, err
	}

	entities := []T{}
	if err := q.Find(&entities).Error; err != nil {
		return nil, err
	}
	if o.Tracking {
		r.trackAll(ctx, entities)
	}
	return entities, nil
}

// GetListPaginated returns one 1-based page of matches with the total count
// of the filtered set. Pages past the end are empty. A page below 1 is read
// as the first page; a non-positive page size is rejected.
func (r *GormRepository[T]) GetListPaginated(ctx context.Context, page, pageSize int, opts ...shared.QueryOption) (*shared.Paginated[T], error) {
	if pageSize <= 0 {
		return nil, shared.NewInvalidOperationError("page size must be positive, got %d", pageSize)
	}
	if page < 1 {
		page = 1
	}
	o := shared.NewQueryOptions(opts...)

	db, err := r.session.DB(ctx)
	if err != nil {
		return nil, err
	}
	countQuery, err := applyWhere(db.Model(new(T)), r.schema, o.Where)
	if err != nil {
		return nil, err
	}
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", r.schema.Name, err)
	}

	q, err := r.query(ctx, o)
	if err != nil {
		return nil, err
	}
	if q, err = applyOrder(q, r.schema, o.OrderBy); err != nil {
		return nil, err
	}
	if len(o.OrderBy) == 0 {
		q = q.Order(clause.OrderByColumn{
			Column: clause.Column{Table: clause.CurrentTable, Name: r.schema.PrioritizedPrimaryField.DBName},
		})
	}

	entities := []T{}
	// the range check precedes the multiplication so a huge page cannot overflow the offset
	if page-1 < shared.PageCount(total, pageSize) {
		offset := (page - 1) * pageSize
		if err := q.Offset(offset).Limit(pageSize).Find(&entities).Error; err != nil {
			return nil, err
		}
	}
	if o.Tracking {
		r.trackAll(ctx, entities)
	}

	result := shared.NewPaginated(entities, total, page, pageSize)
	return &result, nil
}

func (r *GormRepository[T]) trackAll(ctx context.Context, entities []T) {
	for i := range entities {
		r.session.track(ctx, &entities[i], r.schema)
	}
}

// Add stages an insert. The ID is assigned when the unit of work saves.
func (r *GormRepository[T]) Add(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, shared.NewInvalidOperationError("cannot add a nil %s", r.schema.Name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := r.session.DB(ctx); err != nil {
		return nil, err
	}
	r.session.stage(pendingOp{kind: opInsert, entity: entity, schema: r.schema})
	return entity, nil
}

// Update stages a write of every column except the key and CreatedAt
func (r *GormRepository[T]) Update(entity *T) *T {
	if entity != nil {
		r.session.stage(pendingOp{kind: opUpdate, entity: entity, schema: r.schema})
	}
	return entity
}

// UpdateFields stages a write of only the named fields. Nothing is staged
// if the mask is rejected.
func (r *GormRepository[T]) UpdateFields(ctx context.Context, entity *T, fields ...string) (*T, error) {
	if entity == nil {
		return nil, shared.NewInvalidOperationError("cannot update a nil %s", r.schema.Name)
	}
	columns, err := ValidateUpdateFields(r.schema, fields)
	if err != nil {
		return nil, err
	}
	if _, err := r.session.DB(ctx); err != nil {
		return nil, err
	}
	r.session.stage(pendingOp{kind: opUpdateFields, entity: entity, schema: r.schema, columns: columns})
	return entity, nil
}

// UpdateMany applies values to every row matching where, server side and
// immediately. UpdatedAt is set on every affected row. An empty where
// updates the whole table.
func (r *GormRepository[T]) UpdateMany(ctx context.Context, where []shared.Condition, values map[string]any) (int64, error) {
	if len(values) == 0 {
		return 0, shared.NewInvalidOperationError("no values given for bulk update of %s", r.schema.Name)
	}
	fields := make([]string, 0, len(values))
	for name := range values {
		fields = append(fields, name)
	}
	if _, err := ValidateUpdateFields(r.schema, fields); err != nil {
		return 0, err
	}

	db, err := r.session.DB(ctx)
	if err != nil {
		return 0, err
	}
	assignments := make(map[string]any, len(values)+1)
	for name, v := range values {
		field, _ := lookupColumn(r.schema, name)
		assignments[field.DBName] = v
	}
	assignments["updated_at"] = db.NowFunc()

	q := db.Model(new(T))
	if len(where) == 0 {
		q = q.Session(&gorm.Session{AllowGlobalUpdate: true})
	}
	if q, err = applyWhere(q, r.schema, where); err != nil {
		return 0, err
	}
	result := q.Updates(assignments)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to bulk update %s: %w", r.schema.Name, result.Error)
	}
	return result.RowsAffected, nil
}

// Delete stages a removal. Owned children are removed with the entity.
func (r *GormRepository[T]) Delete(entity *T) {
	if entity != nil {
		r.session.stage(pendingOp{kind: opDelete, entity: entity, schema: r.schema})
	}
}

// DeleteMany removes every row matching where, server side and immediately.
// An empty where deletes the whole table.
func (r *GormRepository[T]) DeleteMany(ctx context.Context, where ...shared.Condition) (int64, error) {
	db, err := r.session.DB(ctx)
	if err != nil {
		return 0, err
	}
	q := db
	if len(where) == 0 {
		q = q.Session(&gorm.Session{AllowGlobalUpdate: true})
	}
	if q, err = applyWhere(q, r.schema, where); err != nil {
		return 0, err
	}
	result := q.Delete(new(T))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to bulk delete %s: %w", r.schema.Name, result.Error)
	}
	return result.RowsAffected, nil
}

// FromSQL runs a raw parameterized query mapped onto T. Results are never
// tracked.
func (r *GormRepository[T]) FromSQL(ctx context.Context, query string, args ...any) ([]T, error) {
	db, err := r.session.DB(ctx)
	if err != nil {
		return nil, err
	}
	entities := []T{}
	if err := db.Raw(query, args...).Scan(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// Exists reports whether any row matches where
func (r *GormRepository[T]) Exists(ctx context.Context, where ...shared.Condition) (bool, error) {
	db, err := r.session.DB(ctx)
	if err != nil {
		return false, err
	}
	q, err := applyWhere(db.Model(new(T)), r.schema, where)
	if err != nil {
		return false, err
	}
	var ids []uint
	if err := q.Limit(1).Pluck(r.schema.PrioritizedPrimaryField.DBName, &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// Count returns the number of rows in the table
func (r *GormRepository[T]) Count(ctx context.Context) (int64, error) {
	db, err := r.session.DB(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := db.Model(new(T)).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
