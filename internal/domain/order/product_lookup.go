package order

import (
	"context"

	"github.com/shopspring/decimal"
)

// ProductSnapshot is a point-in-time copy of a product owned by the product
// service
type ProductSnapshot struct {
	ID          uint            `json:"id"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

// SnapshotEntityName is used in NotFound errors raised by lookups
const SnapshotEntityName = "ProductSnapshot"

// ProductLookup fetches product snapshots across the service boundary.
// It returns a NotFound domain error when the product does not exist.
type ProductLookup interface {
	GetByID(ctx context.Context, productID uint) (*ProductSnapshot, error)
}
