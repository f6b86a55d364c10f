package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/erp/ordering/internal/application/mediator"
	"github.com/erp/ordering/internal/domain/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsBehavior counts dispatches and observes their duration, labelled by
// request name and outcome
type MetricsBehavior struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsBehavior registers the mediator metrics with reg under namespace
func NewMetricsBehavior(reg prometheus.Registerer, namespace string) *MetricsBehavior {
	factory := promauto.With(reg)
	return &MetricsBehavior{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mediator_requests_total",
				Help:      "Total number of dispatched commands and queries",
			},
			[]string{"request", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "mediator_request_duration_seconds",
				Help:      "Duration of dispatched commands and queries",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"request", "outcome"},
		),
	}
}

// Handle implements mediator.Behavior
func (b *MetricsBehavior) Handle(ctx context.Context, call *mediator.Call, next mediator.Next) (any, error) {
	start := time.Now()
	resp, err := next(ctx)

	outcome := Outcome(err)
	b.requests.WithLabelValues(call.RequestName, outcome).Inc()
	b.duration.WithLabelValues(call.RequestName, outcome).Observe(time.Since(start).Seconds())
	return resp, err
}

// Outcome classifies an error for metric labels
func Outcome(err error) string {
	var domainErr *shared.DomainError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &domainErr):
		switch domainErr.Code {
		case shared.CodeValidation:
			return "invalid"
		case shared.CodeNotFound:
			return "not_found"
		case shared.CodeTransport:
			return "transport_error"
		}
	}
	return "error"
}
