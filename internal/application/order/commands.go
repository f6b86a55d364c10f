// Package order holds the commands and queries of the order service
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/ordering/internal/domain/order"
	"github.com/erp/ordering/internal/domain/shared"
	"go.uber.org/zap"
)

// CreateOrderHandler creates orders after checking every line against the
// product service
type CreateOrderHandler struct {
	uows     order.UnitOfWorkFactory
	products order.ProductLookup
	logger   *zap.Logger
	now      func() time.Time
}

// NewCreateOrderHandler creates a CreateOrderHandler
func NewCreateOrderHandler(uows order.UnitOfWorkFactory, products order.ProductLookup, logger *zap.Logger) *CreateOrderHandler {
	return &CreateOrderHandler{
		uows:     uows,
		products: products,
		logger:   nopIfNil(logger),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Handle stages the order and saves it. The unit price of each line is the
// product's price at this moment, not the price the client sent.
func (h *CreateOrderHandler) Handle(ctx context.Context, req CreateOrder) (uint, error) {
	items := make([]order.OrderItem, 0, len(req.Items))
	for i, line := range req.Items {
		snapshot, err := h.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return 0, err
		}
		field := fmt.Sprintf("items[%d].product_id", i)
		if snapshot.Stock < 1 {
			return 0, shared.NewValidationError(shared.FieldError{Field: field, Message: "Out of stock"})
		}
		if !snapshot.Price.IsPositive() {
			return 0, shared.NewValidationError(shared.FieldError{Field: field, Message: "Invalid price"})
		}
		items = append(items, order.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: snapshot.Price,
		})
	}

	orderDate := req.OrderDate
	if orderDate.IsZero() {
		orderDate = h.now()
	}
	o, err := order.NewOrder(req.CustomerID, orderDate, items)
	if err != nil {
		return 0, err
	}

	uow, err := h.uows()
	if err != nil {
		return 0, err
	}
	defer closeUnitOfWork(uow, h.logger)

	if _, err := uow.Orders().Add(ctx, o); err != nil {
		return 0, err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return 0, err
	}

	h.logger.Info("Order created",
		zap.Uint("order_id", o.ID),
		zap.String("customer_id", o.CustomerID),
		zap.String("total_amount", o.TotalAmount.StringFixed(2)),
	)
	return o.ID, nil
}

// UpdateOrderStatusHandler replaces the status of an order
type UpdateOrderStatusHandler struct {
	uows   order.UnitOfWorkFactory
	logger *zap.Logger
}

// NewUpdateOrderStatusHandler creates an UpdateOrderStatusHandler
func NewUpdateOrderStatusHandler(uows order.UnitOfWorkFactory, logger *zap.Logger) *UpdateOrderStatusHandler {
	return &UpdateOrderStatusHandler{uows: uows, logger: nopIfNil(logger)}
}

// Handle loads the order and writes the new status. A missing order is a
// NotFound error and nothing is written.
func (h *UpdateOrderStatusHandler) Handle(ctx context.Context, req UpdateOrderStatus) (bool, error) {
	uow, err := h.uows()
	if err != nil {
		return false, err
	}
	defer closeUnitOfWork(uow, h.logger)

	o, err := uow.Orders().Find(ctx, req.ID)
	if err != nil {
		return false, err
	}
	if o == nil {
		h.logger.Warn("Order not found", zap.Uint("order_id", req.ID))
		return false, shared.NewNotFoundError(order.EntityName, req.ID)
	}

	if err := o.SetStatus(req.Status); err != nil {
		return false, err
	}
	uow.Orders().Update(o)
	if _, err := uow.SaveChanges(ctx); err != nil {
		return false, err
	}

	h.logger.Info("Order status updated",
		zap.Uint("order_id", o.ID),
		zap.String("status", o.Status.String()),
	)
	return true, nil
}

func closeUnitOfWork(uow order.UnitOfWork, logger *zap.Logger) {
	if err := uow.Close(); err != nil {
		logger.Warn("Failed to close unit of work", zap.Error(err))
	}
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
