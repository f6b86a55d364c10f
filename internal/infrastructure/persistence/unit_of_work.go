package persistence

import (
	"context"

	"github.com/erp/ordering/internal/domain/order"
	"github.com/erp/ordering/internal/domain/product"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UnitOfWork is the save boundary shared by the repositories of one request.
// Repositories never commit; only SaveChanges does.
type UnitOfWork struct {
	session *Session
}

func newUnitOfWork(db *gorm.DB, logger *zap.Logger) UnitOfWork {
	return UnitOfWork{session: NewSession(db, logger)}
}

// SaveChanges flushes all staged and detected changes atomically
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int, error) {
	return u.session.SaveChanges(ctx)
}

// Close releases the session
func (u *UnitOfWork) Close() error {
	return u.session.Close()
}

// OrderIncludes are the navigations loadable on an Order
var OrderIncludes = IncludeRegistry{
	order.IncludeItems: "Items",
}

// OrderUnitOfWork manages orders and their items
type OrderUnitOfWork struct {
	UnitOfWork
	orders *GormRepository[order.Order]
	items  *GormRepository[order.OrderItem]
}

// NewOrderUnitOfWork opens a unit of work over db
func NewOrderUnitOfWork(db *gorm.DB, logger *zap.Logger) (*OrderUnitOfWork, error) {
	uow := &OrderUnitOfWork{UnitOfWork: newUnitOfWork(db, logger)}

	var err error
	if uow.orders, err = NewGormRepository[order.Order](uow.session, OrderIncludes); err != nil {
		return nil, err
	}
	if uow.items, err = NewGormRepository[order.OrderItem](uow.session, NoIncludes); err != nil {
		return nil, err
	}
	return uow, nil
}

// NewOrderUnitOfWorkFactory returns a factory opening one unit of work per call
func NewOrderUnitOfWorkFactory(db *gorm.DB, logger *zap.Logger) order.UnitOfWorkFactory {
	return func() (order.UnitOfWork, error) {
		return NewOrderUnitOfWork(db, logger)
	}
}

// Orders returns the order repository
func (u *OrderUnitOfWork) Orders() order.OrderRepository {
	return u.orders
}

// OrderItems returns the order item repository
func (u *OrderUnitOfWork) OrderItems() order.OrderItemRepository {
	return u.items
}

// ProductUnitOfWork manages products
type ProductUnitOfWork struct {
	UnitOfWork
	products *GormRepository[product.Product]
}

// NewProductUnitOfWork opens a unit of work over db
func NewProductUnitOfWork(db *gorm.DB, logger *zap.Logger) (*ProductUnitOfWork, error) {
	uow := &ProductUnitOfWork{UnitOfWork: newUnitOfWork(db, logger)}

	var err error
	if uow.products, err = NewGormRepository[product.Product](uow.session, NoIncludes); err != nil {
		return nil, err
	}
	return uow, nil
}

// NewProductUnitOfWorkFactory returns a factory opening one unit of work per call
func NewProductUnitOfWorkFactory(db *gorm.DB, logger *zap.Logger) product.UnitOfWorkFactory {
	return func() (product.UnitOfWork, error) {
		return NewProductUnitOfWork(db, logger)
	}
}

// Products returns the product repository
func (u *ProductUnitOfWork) Products() product.ProductRepository {
	return u.products
}

var (
	_ order.UnitOfWork   = (*OrderUnitOfWork)(nil)
	_ product.UnitOfWork = (*ProductUnitOfWork)(nil)
)
