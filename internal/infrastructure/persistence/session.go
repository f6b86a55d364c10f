package persistence

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/erp/ordering/internal/domain/shared"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// ErrSessionClosed is returned when a closed unit of work is used
var ErrSessionClosed = shared.NewInvalidOperationError("unit of work is closed")

type opKind int

const (
	opInsert opKind = iota
	opUpdate
	opUpdateFields
	opDelete
)

func (k opKind) String() string {
	switch k {
	case opInsert:
		return "insert"
	case opUpdate:
		return "update"
	case opUpdateFields:
		return "update_fields"
	case opDelete:
		return "delete"
	}
	return "unknown"
}

// pendingOp is one staged write, flushed in staging order
type pendingOp struct {
	kind    opKind
	entity  any
	schema  *schema.Schema
	columns []string
}

// trackedEntry holds a loaded entity and the column values it had when it
// was loaded or last saved
type trackedEntry struct {
	entity   any
	schema   *schema.Schema
	snapshot map[string]any
}

// Session is the change set shared by every repository of one unit of work.
// Staged operations and detected changes on tracked entities are written in
// one transaction by SaveChanges. A Session belongs to a single request and
// is not safe for concurrent use.
type Session struct {
	db      *gorm.DB
	logger  *zap.Logger
	ops     []pendingOp
	tracked []*trackedEntry
	closed  bool
}

// NewSession creates a session over db
func NewSession(db *gorm.DB, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{db: db, logger: logger}
}

// DB returns the db for reads. It fails once the session is closed.
func (s *Session) DB(ctx context.Context) (*gorm.DB, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.db.WithContext(ctx), nil
}

// Pending returns the number of staged operations
func (s *Session) Pending() int {
	return len(s.ops)
}

func (s *Session) stage(op pendingOp) {
	if s.closed {
		return
	}
	s.ops = append(s.ops, op)
}

// track registers entity, and the has-one/has-many children loaded into it,
// for change detection. entity must be a pointer to a struct.
func (s *Session) track(ctx context.Context, entity any, sch *schema.Schema) {
	if s.closed {
		return
	}
	walkOwned(ctx, entity, sch, func(e any, es *schema.Schema) {
		rv := reflect.ValueOf(e).Elem()
		if existing := s.findTracked(e); existing != nil {
			existing.snapshot = snapshotOf(ctx, rv, existing.schema)
			return
		}
		s.tracked = append(s.tracked, &trackedEntry{
			entity:   e,
			schema:   es,
			snapshot: snapshotOf(ctx, rv, es),
		})
	})
}

// walkOwned calls fn for entity and, depth first, for every has-one or
// has-many child loaded into it. Relations declared on another schema, such
// as the back reference gorm keeps on the child side of a has-many, are
// skipped.
func walkOwned(ctx context.Context, entity any, sch *schema.Schema, fn func(entity any, sch *schema.Schema)) {
	if entity == nil {
		return
	}
	rv := reflect.ValueOf(entity)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return
	}
	fn(entity, sch)

	for _, rel := range sch.Relationships.Relations {
		if rel.Schema != sch {
			continue
		}
		if rel.Type != schema.HasMany && rel.Type != schema.HasOne {
			continue
		}
		child := rel.Field.ReflectValueOf(ctx, rv.Elem())
		for child.Kind() == reflect.Ptr {
			if child.IsNil() {
				break
			}
			child = child.Elem()
		}
		switch child.Kind() {
		case reflect.Slice:
			for i := 0; i < child.Len(); i++ {
				item := child.Index(i)
				if item.Kind() == reflect.Ptr {
					if !item.IsNil() {
						walkOwned(ctx, item.Interface(), rel.FieldSchema, fn)
					}
					continue
				}
				walkOwned(ctx, item.Addr().Interface(), rel.FieldSchema, fn)
			}
		case reflect.Struct:
			if child.CanAddr() {
				walkOwned(ctx, child.Addr().Interface(), rel.FieldSchema, fn)
			}
		}
	}
}

// insertState holds the column values an entity staged for insert had before
// the transaction, so that a rollback can clear generated keys and stamps
type insertState struct {
	entity any
	schema *schema.Schema
	values map[string]any
}

func captureInserts(ctx context.Context, ops []pendingOp) []insertState {
	var states []insertState
	for _, op := range ops {
		if op.kind != opInsert {
			continue
		}
		walkOwned(ctx, op.entity, op.schema, func(e any, es *schema.Schema) {
			states = append(states, insertState{
				entity: e,
				schema: es,
				values: snapshotOf(ctx, reflect.ValueOf(e).Elem(), es),
			})
		})
	}
	return states
}

func restoreInserts(ctx context.Context, states []insertState) error {
	var errs []error
	for _, st := range states {
		rv := reflect.ValueOf(st.entity).Elem()
		for name, value := range st.values {
			if err := st.schema.FieldsByDBName[name].Set(ctx, rv, value); err != nil {
				errs = append(errs, fmt.Errorf("%s.%s: %w", st.schema.Name, name, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Session) findTracked(entity any) *trackedEntry {
	for _, t := range s.tracked {
		if t.entity == entity {
			return t
		}
	}
	return nil
}

func (s *Session) untrack(entity any) {
	for i, t := range s.tracked {
		if t.entity == entity {
			s.tracked = append(s.tracked[:i], s.tracked[i+1:]...)
			return
		}
	}
}

// snapshotOf copies the column values of a struct
func snapshotOf(ctx context.Context, rv reflect.Value, sch *schema.Schema) map[string]any {
	values := make(map[string]any, len(sch.DBNames))
	for _, name := range sch.DBNames {
		field := sch.FieldsByDBName[name]
		v, _ := field.ValueOf(ctx, rv)
		values[name] = v
	}
	return values
}

// dirtyColumns returns the updatable columns whose value differs from the
// snapshot
func (t *trackedEntry) dirtyColumns(ctx context.Context) []string {
	rv := reflect.ValueOf(t.entity).Elem()
	var dirty []string
	for _, name := range t.schema.DBNames {
		field := t.schema.FieldsByDBName[name]
		if IsProtectedField(field) {
			continue
		}
		current, _ := field.ValueOf(ctx, rv)
		if !reflect.DeepEqual(current, t.snapshot[name]) {
			dirty = append(dirty, name)
		}
	}
	return dirty
}

// SaveChanges writes every staged operation, then every detected change on
// tracked entities, inside one transaction, and returns the number of rows
// written. On failure nothing is committed, the staged operations are
// discarded and entities staged for insert get back the keys and timestamps
// they had before the attempt.
func (s *Session) SaveChanges(ctx context.Context) (int, error) {
	if s.closed {
		return 0, ErrSessionClosed
	}

	ops := s.ops
	s.ops = nil

	staged := make(map[any]struct{}, len(ops))
	for _, op := range ops {
		staged[op.entity] = struct{}{}
	}

	type detected struct {
		entry   *trackedEntry
		columns []string
	}
	var changes []detected
	for _, t := range s.tracked {
		if _, ok := staged[t.entity]; ok {
			continue
		}
		if cols := t.dirtyColumns(ctx); len(cols) > 0 {
			changes = append(changes, detected{entry: t, columns: cols})
		}
	}

	if len(ops) == 0 && len(changes) == 0 {
		return 0, nil
	}

	inserts := captureInserts(ctx, ops)

	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range ops {
			n, err := execOp(tx, op)
			if err != nil {
				return fmt.Errorf("failed to %s %s: %w", op.kind, op.schema.Name, err)
			}
			affected += n
		}
		for _, c := range changes {
			n, err := updateColumns(tx, c.entry.entity, c.columns)
			if err != nil {
				return fmt.Errorf("failed to update %s: %w", c.entry.schema.Name, err)
			}
			affected += n
		}
		return nil
	})
	if err != nil {
		if restoreErr := restoreInserts(ctx, inserts); restoreErr != nil {
			s.logger.Error("Failed to reset entities of a rolled back insert", zap.Error(restoreErr))
		}
		s.logger.Warn("Save changes rolled back",
			zap.Int("staged", len(ops)),
			zap.Int("detected", len(changes)),
			zap.Error(err),
		)
		return 0, err
	}

	for _, op := range ops {
		if op.kind == opDelete {
			s.untrack(op.entity)
			continue
		}
		s.track(ctx, op.entity, op.schema)
	}
	for _, c := range changes {
		c.entry.snapshot = snapshotOf(ctx, reflect.ValueOf(c.entry.entity).Elem(), c.entry.schema)
	}

	s.logger.Debug("Saved changes",
		zap.Int("staged", len(ops)),
		zap.Int("detected", len(changes)),
		zap.Int64("rows", affected),
	)
	return int(affected), nil
}

func execOp(tx *gorm.DB, op pendingOp) (int64, error) {
	switch op.kind {
	case opInsert:
		result := tx.Create(op.entity)
		return result.RowsAffected, result.Error
	case opUpdate:
		result := tx.Model(op.entity).
			Select("*").
			Omit(op.schema.PrioritizedPrimaryField.DBName, "created_at").
			Updates(op.entity)
		return result.RowsAffected, result.Error
	case opUpdateFields:
		return updateColumns(tx, op.entity, op.columns)
	case opDelete:
		q := tx
		if len(op.schema.Relationships.Relations) > 0 {
			q = q.Select(clause.Associations)
		}
		result := q.Delete(op.entity)
		return result.RowsAffected, result.Error
	}
	return 0, errors.New("unknown operation")
}

// updateColumns writes the given columns plus the modification timestamp
func updateColumns(tx *gorm.DB, entity any, columns []string) (int64, error) {
	selected := make([]string, 0, len(columns)+1)
	selected = append(selected, columns...)
	if !containsString(selected, "updated_at") {
		selected = append(selected, "updated_at")
	}
	result := tx.Model(entity).Select(selected).Updates(entity)
	return result.RowsAffected, result.Error
}

// Close discards staged operations and tracked entities. Later calls on the
// session fail with ErrSessionClosed. Close is idempotent.
func (s *Session) Close() error {
	s.ops = nil
	s.tracked = nil
	s.closed = true
	return nil
}
