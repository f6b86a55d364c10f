package order

import (
	"context"

	"github.com/erp/ordering/internal/domain/shared"
)

// OrderRepository is the repository for Order aggregates
type OrderRepository interface {
	shared.Repository[Order]
}

// OrderItemRepository is the repository for order lines
type OrderItemRepository interface {
	shared.Repository[OrderItem]
}

// UnitOfWork binds the order repositories to one save boundary. Nothing
// reaches the store until SaveChanges succeeds.
type UnitOfWork interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	SaveChanges(ctx context.Context) (int, error)
	Close() error
}

// UnitOfWorkFactory opens a fresh unit of work for one request
type UnitOfWorkFactory func() (UnitOfWork, error)
