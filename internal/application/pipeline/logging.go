// Package pipeline holds the behaviors every mediator dispatch passes through.
package pipeline

import (
	"context"
	"time"

	"github.com/erp/ordering/internal/application/mediator"
	"github.com/erp/ordering/internal/domain/shared"
	"github.com/erp/ordering/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LoggingBehavior logs each dispatch with its latency and outcome.
// Expected failures (validation, not found) log at warn; anything else at error.
type LoggingBehavior struct {
	logger *zap.Logger
}

// NewLoggingBehavior creates a logging behavior
func NewLoggingBehavior(zapLogger *zap.Logger) *LoggingBehavior {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	return &LoggingBehavior{logger: zapLogger.Named("mediator")}
}

// Handle implements mediator.Behavior
func (b *LoggingBehavior) Handle(ctx context.Context, call *mediator.Call, next mediator.Next) (any, error) {
	log := b.logger.With(logger.Fields(ctx)...)

	start := time.Now()
	log.Debug("Handling request", zap.String("request", call.RequestName))

	resp, err := next(ctx)

	fields := []zap.Field{
		zap.String("request", call.RequestName),
		zap.Duration("elapsed", time.Since(start)),
	}
	switch {
	case err == nil:
		log.Debug("Handled request", fields...)
	case shared.IsValidation(err) || shared.IsNotFound(err):
		log.Warn("Request rejected", append(fields, zap.Error(err))...)
	default:
		log.Error("Request failed", append(fields, zap.Error(err))...)
	}
	return resp, err
}
