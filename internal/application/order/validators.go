package order

import (
	"context"
	"fmt"

	"github.com/erp/ordering/internal/application/pipeline"
	"github.com/erp/ordering/internal/domain/shared"
)

// RegisterValidators adds the rules that struct tags cannot express
func RegisterValidators(v *pipeline.Validators) {
	pipeline.AddRule(v, validateCreateOrder)
}

// decimal.Decimal is a struct, so its sign is checked here
func validateCreateOrder(_ context.Context, req CreateOrder) []shared.FieldError {
	var errs []shared.FieldError
	for i, item := range req.Items {
		if !item.UnitPrice.IsPositive() {
			errs = append(errs, shared.FieldError{
				Field:   fmt.Sprintf("items[%d].unit_price", i),
				Message: "The price must be positive",
			})
		}
	}
	return errs
}
