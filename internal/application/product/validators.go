package product

import (
	"context"

	"github.com/erp/ordering/internal/application/pipeline"
	"github.com/erp/ordering/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RegisterValidators adds the rules that struct tags cannot express
func RegisterValidators(v *pipeline.Validators) {
	pipeline.AddRule(v, func(_ context.Context, req CreateProduct) []shared.FieldError {
		return validatePrice(req.Price)
	})
	pipeline.AddRule(v, func(_ context.Context, req UpdateProduct) []shared.FieldError {
		return validatePrice(req.Price)
	})
}

func validatePrice(price decimal.Decimal) []shared.FieldError {
	if !price.IsPositive() {
		return []shared.FieldError{{Field: "price", Message: "The price must be positive"}}
	}
	return nil
}
