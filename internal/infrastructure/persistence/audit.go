package persistence

import (
	"fmt"
	"reflect"

	"github.com/erp/ordering/internal/domain/shared"
	"gorm.io/gorm"
)

const (
	callbackStampCreated = "ordering:stamp_created"
	callbackStampUpdated = "ordering:stamp_updated"
)

// RegisterAuditCallbacks installs the save hooks that own the audit
// timestamps: CreatedAt and UpdatedAt on insert, UpdatedAt on update. Rows
// written through associations (order items saved with their order) pass
// through the same hooks. The time comes from the db's NowFunc.
func RegisterAuditCallbacks(db *gorm.DB) error {
	if err := db.Callback().Create().Before("gorm:create").Register(callbackStampCreated, stampCreated); err != nil {
		return fmt.Errorf("failed to register %s: %w", callbackStampCreated, err)
	}
	if err := db.Callback().Update().Before("gorm:update").Register(callbackStampUpdated, stampUpdated); err != nil {
		return fmt.Errorf("failed to register %s: %w", callbackStampUpdated, err)
	}
	return nil
}

func stampCreated(db *gorm.DB) {
	if db.Error != nil {
		return
	}
	now := db.NowFunc()
	eachAuditable(db.Statement.ReflectValue, func(a shared.Auditable) {
		a.StampCreated(now)
	})
}

func stampUpdated(db *gorm.DB) {
	if db.Error != nil {
		return
	}
	now := db.NowFunc()
	eachAuditable(db.Statement.ReflectValue, func(a shared.Auditable) {
		a.StampUpdated(now)
	})
}

// eachAuditable visits the addressable auditable values held by rv
func eachAuditable(rv reflect.Value, fn func(shared.Auditable)) {
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			eachAuditable(rv.Index(i), fn)
		}
	case reflect.Struct:
		if !rv.CanAddr() {
			return
		}
		if a, ok := rv.Addr().Interface().(shared.Auditable); ok {
			fn(a)
		}
	}
}
