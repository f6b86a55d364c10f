package product

import (
	"github.com/erp/ordering/internal/application/mediator"
	"github.com/erp/ordering/internal/application/pipeline"
	"github.com/erp/ordering/internal/domain/product"
	"go.uber.org/zap"
)

// Register binds the product handlers and their validators
func Register(m *mediator.Mediator, rules *pipeline.Validators, uows product.UnitOfWorkFactory, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := NewHandlers(uows, logger.Named("product"))

	mediator.RegisterFunc(m, h.CreateProduct)
	mediator.RegisterFunc(m, h.UpdateProduct)
	mediator.RegisterFunc(m, h.UpdateProductStock)
	mediator.RegisterFunc(m, h.DeleteProduct)
	mediator.RegisterFunc(m, h.GetProduct)
	mediator.RegisterFunc(m, h.GetPagedProductsList)

	if rules != nil {
		RegisterValidators(rules)
	}
}
