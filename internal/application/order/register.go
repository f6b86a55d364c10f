package order

import (
	"github.com/erp/ordering/internal/application/mediator"
	"github.com/erp/ordering/internal/application/pipeline"
	"github.com/erp/ordering/internal/domain/order"
	"go.uber.org/zap"
)

// Register binds the order handlers and their validators
func Register(m *mediator.Mediator, rules *pipeline.Validators, uows order.UnitOfWorkFactory, products order.ProductLookup, logger *zap.Logger) {
	logger = nopIfNil(logger).Named("order")

	mediator.Register[CreateOrder, uint](m, NewCreateOrderHandler(uows, products, logger))
	mediator.Register[UpdateOrderStatus, bool](m, NewUpdateOrderStatusHandler(uows, logger))
	mediator.Register[GetOrder, OrderView](m, NewGetOrderHandler(uows, logger))
	mediator.Register[GetOrders, []OrderView](m, NewGetOrdersHandler(uows, logger))

	if rules != nil {
		RegisterValidators(rules)
	}
}
