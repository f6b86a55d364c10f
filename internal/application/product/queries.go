package product

import (
	"context"

	"github.com/erp/ordering/internal/domain/product"
	"github.com/erp/ordering/internal/domain/shared"
)

// GetProduct returns one product or NotFound
func (h *Handlers) GetProduct(ctx context.Context, req GetProduct) (ProductView, error) {
	var view ProductView
	err := h.withUnitOfWork(func(uow product.UnitOfWork) error {
		p, err := h.findProduct(ctx, uow, req.ID)
		if err != nil {
			return err
		}
		view = ToProductView(*p)
		return nil
	})
	return view, err
}

// GetPagedProductsList returns one page of products ordered by ID
func (h *Handlers) GetPagedProductsList(ctx context.Context, req GetPagedProductsList) (PagedProducts, error) {
	var page PagedProducts
	err := h.withUnitOfWork(func(uow product.UnitOfWork) error {
		result, err := uow.Products().GetListPaginated(ctx, req.CurrentPage, req.PageSize,
			shared.OrderBy(shared.Asc(shared.FieldID)),
		)
		if err != nil {
			return err
		}
		page = shared.MapPaginated(result, ToProductView)
		return nil
	})
	return page, err
}
