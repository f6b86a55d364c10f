package pipeline

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/erp/ordering/internal/application/mediator"
	"github.com/erp/ordering/internal/domain/shared"
	"github.com/go-playground/validator/v10"
)

// Rule checks one request and returns its failures
type Rule[Req any] func(ctx context.Context, req Req) []shared.FieldError

// Validators holds the rules registered per request type
type Validators struct {
	mu    sync.RWMutex
	rules map[reflect.Type][]func(ctx context.Context, req any) []shared.FieldError
}

// NewValidators creates an empty rule set
func NewValidators() *Validators {
	return &Validators{rules: make(map[reflect.Type][]func(context.Context, any) []shared.FieldError)}
}

// AddRule registers a rule for Req. Every rule of a type runs on dispatch.
func AddRule[Req any](v *Validators, rule Rule[Req]) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rules[reqType] = append(v.rules[reqType], func(ctx context.Context, req any) []shared.FieldError {
		return rule(ctx, req.(Req))
	})
}

func (v *Validators) forType(t reflect.Type) []func(context.Context, any) []shared.FieldError {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.rules[t]
}

// ValidationBehavior rejects a request before its handler runs when struct
// tag constraints or registered rules fail. All failures are collected into
// one validation error.
type ValidationBehavior struct {
	validate *validator.Validate
	rules    *Validators
}

// NewValidationBehavior creates the behavior over rules
func NewValidationBehavior(rules *Validators) *ValidationBehavior {
	if rules == nil {
		rules = NewValidators()
	}
	return &ValidationBehavior{validate: NewStructValidator(), rules: rules}
}

// NewStructValidator returns a validator that reports fields by JSON name
func NewStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Handle implements mediator.Behavior
func (b *ValidationBehavior) Handle(ctx context.Context, call *mediator.Call, next mediator.Next) (any, error) {
	var failures []shared.FieldError

	if isStruct(call.Request) {
		if err := b.validate.StructCtx(ctx, call.Request); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return nil, err
			}
			failures = append(failures, FieldErrors(verrs)...)
		}
	}

	for _, rule := range b.rules.forType(reflect.TypeOf(call.Request)) {
		failures = append(failures, rule(ctx, call.Request)...)
	}

	if len(failures) > 0 {
		return nil, shared.NewValidationError(failures...)
	}
	return next(ctx)
}

func isStruct(v any) bool {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t != nil && t.Kind() == reflect.Struct
}

// FieldErrors converts validator errors to field-qualified messages. The
// field is the namespace below the request, e.g. "items[0].quantity".
func FieldErrors(errs validator.ValidationErrors) []shared.FieldError {
	out := make([]shared.FieldError, 0, len(errs))
	for _, e := range errs {
		field := e.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		out = append(out, shared.FieldError{Field: field, Message: ValidationMessage(e)})
	}
	return out
}

// ValidationMessage returns a human-readable validation message
func ValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must contain at least " + e.Param() + " item(s)"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "lt":
		return "Must be less than " + e.Param()
	default:
		return "Invalid value"
	}
}
