package product

import (
	"context"

	"github.com/erp/ordering/internal/domain/shared"
)

// ProductRepository is the repository for Product aggregates
type ProductRepository interface {
	shared.Repository[Product]
}

// UnitOfWork binds the product repository to one save boundary
type UnitOfWork interface {
	Products() ProductRepository
	SaveChanges(ctx context.Context) (int, error)
	Close() error
}

// UnitOfWorkFactory opens a fresh unit of work for one request
type UnitOfWorkFactory func() (UnitOfWork, error)
