package pipeline

import (
	"context"

	"github.com/erp/ordering/internal/application/mediator"
	"github.com/erp/ordering/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for mediator spans
const TracerName = "github.com/erp/ordering/mediator"

// TracingBehavior wraps each dispatch in a span named after the request type.
// Rejections (validation, not found) are recorded as events; other failures
// mark the span as errored.
type TracingBehavior struct {
	tracer trace.Tracer
}

// NewTracingBehavior creates a tracing behavior on the global tracer provider
func NewTracingBehavior() *TracingBehavior {
	return &TracingBehavior{tracer: otel.Tracer(TracerName)}
}

// Handle implements mediator.Behavior
func (b *TracingBehavior) Handle(ctx context.Context, call *mediator.Call, next mediator.Next) (any, error) {
	ctx, span := b.tracer.Start(ctx, "mediator "+call.RequestName,
		trace.WithAttributes(attribute.String("mediator.request", call.RequestName)))
	defer span.End()

	resp, err := next(ctx)
	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "")
	case shared.IsValidation(err) || shared.IsNotFound(err):
		span.AddEvent("request rejected", trace.WithAttributes(attribute.String("error", err.Error())))
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return resp, err
}
