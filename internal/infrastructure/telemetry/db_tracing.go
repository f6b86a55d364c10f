package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// DBTracing adds otelgorm spans to every statement and marks slow or
// failed statements on them
type DBTracing struct {
	dbName        string
	fullSQL       bool
	slowThreshold time.Duration
	logger        *zap.Logger
}

// NewDBTracing creates the gorm tracing plugin for the database dbName
func NewDBTracing(cfg Config, dbName string, logger *zap.Logger) *DBTracing {
	threshold := cfg.DBSlowQueryThresh
	if threshold <= 0 {
		threshold = 200 * time.Millisecond
	}
	return &DBTracing{
		dbName:        dbName,
		fullSQL:       cfg.DBLogFullSQL,
		slowThreshold: threshold,
		logger:        logger,
	}
}

// Register installs the plugin and its timing callbacks on db
func (t *DBTracing) Register(db *gorm.DB) error {
	cb := db.Callback()
	register := []struct {
		name   string
		before func() error
		after  func() error
	}{
		{"create",
			func() error { return cb.Create().Before("gorm:create").Register("otel_timing:before_create", t.before) },
			func() error { return cb.Create().After("gorm:create").Register("otel_timing:after_create", t.after) }},
		{"query",
			func() error { return cb.Query().Before("gorm:query").Register("otel_timing:before_query", t.before) },
			func() error { return cb.Query().After("gorm:query").Register("otel_timing:after_query", t.after) }},
		{"update",
			func() error { return cb.Update().Before("gorm:update").Register("otel_timing:before_update", t.before) },
			func() error { return cb.Update().After("gorm:update").Register("otel_timing:after_update", t.after) }},
		{"delete",
			func() error { return cb.Delete().Before("gorm:delete").Register("otel_timing:before_delete", t.before) },
			func() error { return cb.Delete().After("gorm:delete").Register("otel_timing:after_delete", t.after) }},
		{"row",
			func() error { return cb.Row().Before("gorm:row").Register("otel_timing:before_row", t.before) },
			func() error { return cb.Row().After("gorm:row").Register("otel_timing:after_row", t.after) }},
		{"raw",
			func() error { return cb.Raw().Before("gorm:raw").Register("otel_timing:before_raw", t.before) },
			func() error { return cb.Raw().After("gorm:raw").Register("otel_timing:after_raw", t.after) }},
	}
	for _, r := range register {
		if err := r.before(); err != nil {
			return fmt.Errorf("failed to register %s tracing callback: %w", r.name, err)
		}
		if err := r.after(); err != nil {
			return fmt.Errorf("failed to register %s tracing callback: %w", r.name, err)
		}
	}

	// registered after the timing callbacks so those run while the statement
	// span is still open
	opts := []otelgorm.Option{otelgorm.WithDBName(t.dbName)}
	if !t.fullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	t.logger.Info("Database tracing enabled",
		zap.String("db", t.dbName),
		zap.Bool("full_sql", t.fullSQL),
		zap.Duration("slow_query_threshold", t.slowThreshold),
	)
	return nil
}

func (t *DBTracing) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

func (t *DBTracing) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if start, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > t.slowThreshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", t.slowThreshold.Milliseconds()),
			))
		}
	}
}
