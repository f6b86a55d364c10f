package product

import (
	"github.com/erp/ordering/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Field tokens usable in conditions, sorts and update masks
const (
	FieldDescription = "Description"
	FieldPrice       = "Price"
	FieldStock       = "Stock"
)

// EntityName is used in NotFound errors
const EntityName = "Product"

// Product is the product aggregate root
type Product struct {
	shared.BaseEntity
	Description string          `gorm:"type:varchar(500);not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product
func NewProduct(description string, price decimal.Decimal, stock int) *Product {
	return &Product{
		Description: description,
		Price:       price,
		Stock:       stock,
	}
}

// Apply replaces every mutable field
func (p *Product) Apply(description string, price decimal.Decimal, stock int) {
	p.Description = description
	p.Price = price
	p.Stock = stock
}

// IsOrderable reports whether one unit can be sold at a positive price
func (p *Product) IsOrderable() bool {
	return p.Stock >= 1 && p.Price.IsPositive()
}
