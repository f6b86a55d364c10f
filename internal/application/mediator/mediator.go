// Package mediator dispatches commands and queries to their handlers through
// an ordered chain of behaviors.
package mediator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

// ErrNoHandler is returned when a request type has no registered handler
var ErrNoHandler = errors.New("mediator: no handler registered")

// Handler handles one request type
type Handler[Req any, Resp any] interface {
	Handle(ctx context.Context, req Req) (Resp, error)
}

// HandlerFunc adapts a function to a Handler
type HandlerFunc[Req any, Resp any] func(ctx context.Context, req Req) (Resp, error)

// Handle calls f(ctx, req)
func (f HandlerFunc[Req, Resp]) Handle(ctx context.Context, req Req) (Resp, error) {
	return f(ctx, req)
}

// Call describes one dispatch as seen by behaviors
type Call struct {
	Request      any
	RequestName  string
	ResponseType reflect.Type
}

// Next continues the chain: the next behavior, or the handler itself
type Next func(ctx context.Context) (any, error)

// Behavior is one cross-cutting step. It either calls next or returns its own
// result without reaching the handler.
type Behavior interface {
	Handle(ctx context.Context, call *Call, next Next) (any, error)
}

// BehaviorFunc adapts a function to a Behavior
type BehaviorFunc func(ctx context.Context, call *Call, next Next) (any, error)

// Handle calls f(ctx, call, next)
func (f BehaviorFunc) Handle(ctx context.Context, call *Call, next Next) (any, error) {
	return f(ctx, call, next)
}

type registration struct {
	responseType reflect.Type
	invoke       func(ctx context.Context, req any) (any, error)
}

// Mediator routes requests by their dynamic type. Behaviors run in the order
// given to New, outermost first. Registration happens at startup; dispatch is
// safe for concurrent use afterwards.
type Mediator struct {
	handlers  map[reflect.Type]registration
	behaviors []Behavior
}

// New creates a mediator with the given behavior chain
func New(behaviors ...Behavior) *Mediator {
	return &Mediator{
		handlers:  make(map[reflect.Type]registration),
		behaviors: behaviors,
	}
}

// Register binds the handler for Req. Registering a request type twice
// panics.
func Register[Req any, Resp any](m *Mediator, h Handler[Req, Resp]) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if _, exists := m.handlers[reqType]; exists {
		panic(fmt.Sprintf("mediator: handler for %s already registered", reqType))
	}
	m.handlers[reqType] = registration{
		responseType: reflect.TypeOf((*Resp)(nil)).Elem(),
		invoke: func(ctx context.Context, req any) (any, error) {
			return h.Handle(ctx, req.(Req))
		},
	}
}

// RegisterFunc binds a handler function for Req
func RegisterFunc[Req any, Resp any](m *Mediator, fn func(ctx context.Context, req Req) (Resp, error)) {
	Register[Req, Resp](m, HandlerFunc[Req, Resp](fn))
}

// Send dispatches req through the behaviors to its handler
func Send[Resp any](ctx context.Context, m *Mediator, req any) (Resp, error) {
	var zero Resp
	if req == nil {
		return zero, fmt.Errorf("%w: nil request", ErrNoHandler)
	}

	reqType := reflect.TypeOf(req)
	reg, ok := m.handlers[reqType]
	if !ok {
		return zero, fmt.Errorf("%w for %s", ErrNoHandler, reqType)
	}
	respType := reflect.TypeOf((*Resp)(nil)).Elem()
	if reg.responseType != respType {
		return zero, fmt.Errorf("mediator: %s is handled with response %s, not %s", reqType, reg.responseType, respType)
	}

	call := &Call{
		Request:      req,
		RequestName:  reqType.Name(),
		ResponseType: respType,
	}

	next := Next(func(ctx context.Context) (any, error) {
		return reg.invoke(ctx, req)
	})
	for i := len(m.behaviors) - 1; i >= 0; i-- {
		behavior, inner := m.behaviors[i], next
		next = func(ctx context.Context) (any, error) {
			return behavior.Handle(ctx, call, inner)
		}
	}

	result, err := next(ctx)
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	resp, ok := result.(Resp)
	if !ok {
		return zero, fmt.Errorf("mediator: %s produced %T, expected %s", reqType, result, respType)
	}
	return resp, nil
}
