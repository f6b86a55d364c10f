package product

import (
	"fmt"
	"time"

	"github.com/erp/ordering/internal/domain/product"
	"github.com/erp/ordering/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateProduct adds a product to the catalog
type CreateProduct struct {
	Description string          `json:"description" validate:"required,max=500"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

// UpdateProduct replaces every mutable field of a product
type UpdateProduct struct {
	ID          uint            `json:"id" validate:"gt=0"`
	Description string          `json:"description" validate:"required,max=500"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

// UpdateProductStock writes only the stock of a product
type UpdateProductStock struct {
	ID    uint `json:"id" validate:"gt=0"`
	Stock int  `json:"stock" validate:"gte=0"`
}

// DeleteProduct removes a product
type DeleteProduct struct {
	ID uint `json:"id" validate:"gt=0"`
}

// GetProduct loads one product
type GetProduct struct {
	ID uint `json:"id" validate:"gt=0"`
}

// PagedProductsCacheTTL is how long a page of the product list is cached
const PagedProductsCacheTTL = time.Minute

// GetPagedProductsList returns one page of the catalog ordered by ID. Pages
// are cached per page number and size.
type GetPagedProductsList struct {
	CurrentPage int `json:"current_page" validate:"gte=1"`
	PageSize    int `json:"page_size" validate:"gte=1,lte=100"`
}

// CacheKey implements pipeline.Cacheable
func (q GetPagedProductsList) CacheKey() string {
	return fmt.Sprintf("products:paged:%d:%d", q.CurrentPage, q.PageSize)
}

// CacheExpiration implements pipeline.Cacheable
func (q GetPagedProductsList) CacheExpiration() time.Duration {
	return PagedProductsCacheTTL
}

// ProductView is the read model of a product. It is also the body the order
// service decodes as a product snapshot.
type ProductView struct {
	ID          uint            `json:"id"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PagedProducts is one page of product views
type PagedProducts = shared.Paginated[ProductView]

// ToProductView converts a domain product to its read model
func ToProductView(p product.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
