package order

import (
	"context"

	"github.com/erp/ordering/internal/domain/order"
	"github.com/erp/ordering/internal/domain/shared"
	"go.uber.org/zap"
)

// GetOrderHandler loads one order with its items
type GetOrderHandler struct {
	uows   order.UnitOfWorkFactory
	logger *zap.Logger
}

// NewGetOrderHandler creates a GetOrderHandler
func NewGetOrderHandler(uows order.UnitOfWorkFactory, logger *zap.Logger) *GetOrderHandler {
	return &GetOrderHandler{uows: uows, logger: nopIfNil(logger)}
}

// Handle returns the order view or a NotFound error
func (h *GetOrderHandler) Handle(ctx context.Context, req GetOrder) (OrderView, error) {
	uow, err := h.uows()
	if err != nil {
		return OrderView{}, err
	}
	defer closeUnitOfWork(uow, h.logger)

	o, err := uow.Orders().GetEntity(ctx,
		shared.Where(shared.Eq(shared.FieldID, req.ID)),
		shared.WithIncludes(order.IncludeItems),
	)
	if err != nil {
		return OrderView{}, err
	}
	if o == nil {
		h.logger.Warn("Order not found", zap.Uint("order_id", req.ID))
		return OrderView{}, shared.NewNotFoundError(order.EntityName, req.ID)
	}
	return ToOrderView(o), nil
}

// GetOrdersHandler lists every order
type GetOrdersHandler struct {
	uows   order.UnitOfWorkFactory
	logger *zap.Logger
}

// NewGetOrdersHandler creates a GetOrdersHandler
func NewGetOrdersHandler(uows order.UnitOfWorkFactory, logger *zap.Logger) *GetOrdersHandler {
	return &GetOrdersHandler{uows: uows, logger: nopIfNil(logger)}
}

// Handle returns all orders, oldest first
func (h *GetOrdersHandler) Handle(ctx context.Context, _ GetOrders) ([]OrderView, error) {
	uow, err := h.uows()
	if err != nil {
		return nil, err
	}
	defer closeUnitOfWork(uow, h.logger)

	orders, err := uow.Orders().GetList(ctx,
		shared.WithIncludes(order.IncludeItems),
		shared.OrderBy(shared.Asc(shared.FieldID)),
	)
	if err != nil {
		return nil, err
	}
	views := make([]OrderView, len(orders))
	for i := range orders {
		views[i] = ToOrderView(&orders[i])
	}
	return views, nil
}
