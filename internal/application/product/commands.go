// Package product holds the commands and queries of the product service
package product

import (
	"context"

	"github.com/erp/ordering/internal/domain/product"
	"github.com/erp/ordering/internal/domain/shared"
	"go.uber.org/zap"
)

// Handlers implements every product command and query over one unit of work
// per request
type Handlers struct {
	uows   product.UnitOfWorkFactory
	logger *zap.Logger
}

// NewHandlers creates the product handlers
func NewHandlers(uows product.UnitOfWorkFactory, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{uows: uows, logger: logger}
}

// withUnitOfWork opens a unit of work, runs fn and closes it
func (h *Handlers) withUnitOfWork(fn func(uow product.UnitOfWork) error) error {
	uow, err := h.uows()
	if err != nil {
		return err
	}
	defer func() {
		if err := uow.Close(); err != nil {
			h.logger.Warn("Failed to close unit of work", zap.Error(err))
		}
	}()
	return fn(uow)
}

// findProduct loads a product or returns NotFound
func (h *Handlers) findProduct(ctx context.Context, uow product.UnitOfWork, id uint) (*product.Product, error) {
	p, err := uow.Products().Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		h.logger.Warn("Product not found", zap.Uint("product_id", id))
		return nil, shared.NewNotFoundError(product.EntityName, id)
	}
	return p, nil
}

// CreateProduct stores a new product and returns its ID
func (h *Handlers) CreateProduct(ctx context.Context, req CreateProduct) (uint, error) {
	p := product.NewProduct(req.Description, req.Price, req.Stock)
	err := h.withUnitOfWork(func(uow product.UnitOfWork) error {
		if _, err := uow.Products().Add(ctx, p); err != nil {
			return err
		}
		_, err := uow.SaveChanges(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}

	h.logger.Info("Product created", zap.Uint("product_id", p.ID))
	return p.ID, nil
}

// UpdateProduct replaces description, price and stock
func (h *Handlers) UpdateProduct(ctx context.Context, req UpdateProduct) (bool, error) {
	err := h.withUnitOfWork(func(uow product.UnitOfWork) error {
		p, err := h.findProduct(ctx, uow, req.ID)
		if err != nil {
			return err
		}
		p.Apply(req.Description, req.Price, req.Stock)
		uow.Products().Update(p)
		_, err = uow.SaveChanges(ctx)
		return err
	})
	if err != nil {
		return false, err
	}

	h.logger.Info("Product updated", zap.Uint("product_id", req.ID))
	return true, nil
}

// UpdateProductStock writes the stock column alone
func (h *Handlers) UpdateProductStock(ctx context.Context, req UpdateProductStock) (bool, error) {
	err := h.withUnitOfWork(func(uow product.UnitOfWork) error {
		p, err := h.findProduct(ctx, uow, req.ID)
		if err != nil {
			return err
		}
		p.Stock = req.Stock
		if _, err := uow.Products().UpdateFields(ctx, p, product.FieldStock); err != nil {
			return err
		}
		_, err = uow.SaveChanges(ctx)
		return err
	})
	if err != nil {
		return false, err
	}

	h.logger.Info("Product stock updated",
		zap.Uint("product_id", req.ID),
		zap.Int("stock", req.Stock),
	)
	return true, nil
}

// DeleteProduct removes a product
func (h *Handlers) DeleteProduct(ctx context.Context, req DeleteProduct) (bool, error) {
	err := h.withUnitOfWork(func(uow product.UnitOfWork) error {
		p, err := h.findProduct(ctx, uow, req.ID)
		if err != nil {
			return err
		}
		uow.Products().Delete(p)
		_, err = uow.SaveChanges(ctx)
		return err
	})
	if err != nil {
		return false, err
	}

	h.logger.Info("Product deleted", zap.Uint("product_id", req.ID))
	return true, nil
}
