package shared

import (
	"time"
)

// Entity is the capability every persisted record carries
type Entity interface {
	GetID() uint
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// Auditable is implemented by entities whose audit timestamps are stamped by
// the persistence save pipeline. Callers never set these fields themselves.
type Auditable interface {
	StampCreated(at time.Time)
	StampUpdated(at time.Time)
}

// BaseEntity provides the identity and audit fields shared by all entities.
// ID is assigned by the store on insert; the timestamps are owned by the
// persistence layer.
type BaseEntity struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uint {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// IsTransient reports whether the entity has not been persisted yet
func (e *BaseEntity) IsTransient() bool {
	return e.ID == 0
}

// StampCreated sets both timestamps for a freshly inserted row
func (e *BaseEntity) StampCreated(at time.Time) {
	e.CreatedAt = at
	e.UpdatedAt = at
}

// StampUpdated sets the modification timestamp
func (e *BaseEntity) StampUpdated(at time.Time) {
	e.UpdatedAt = at
}

// Protected field names that partial updates may never touch
const (
	FieldID        = "ID"
	FieldCreatedAt = "CreatedAt"
	FieldUpdatedAt = "UpdatedAt"
)

// ProtectedFields is the set of BaseEntity fields owned by the store
var ProtectedFields = map[string]struct{}{
	FieldID:        {},
	FieldCreatedAt: {},
	FieldUpdatedAt: {},
}
