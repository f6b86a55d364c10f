package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerProvider wraps the OpenTelemetry LoggerProvider with lifecycle management
type LoggerProvider struct {
	provider *sdklog.LoggerProvider
	logger   *zap.Logger
}

// NewLoggerProvider creates the OTLP log pipeline when log export is enabled
func NewLoggerProvider(ctx context.Context, cfg Config, logger *zap.Logger) (*LoggerProvider, error) {
	lp := &LoggerProvider{logger: logger}
	if !cfg.LogsEnabled {
		return lp, nil
	}

	exporterOpts := []otlploggrpc.Option{
		otlploggrpc.WithEndpoint(cfg.CollectorEndpoint),
	}
	if cfg.Insecure {
		exporterOpts = append(exporterOpts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP logs exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	lp.provider = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(lp.provider)

	logger.Info("OpenTelemetry LoggerProvider initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
	)
	return lp, nil
}

// IsEnabled reports whether log records are exported
func (lp *LoggerProvider) IsEnabled() bool {
	return lp.provider != nil
}

// Bridge returns base extended to also emit every record at or above level
// to the collector. base is returned unchanged when export is disabled.
func (lp *LoggerProvider) Bridge(base *zap.Logger, serviceName string, level zapcore.Level) *zap.Logger {
	if lp.provider == nil {
		return base
	}
	otelCore := &levelFilterCore{
		Core:     otelzap.NewCore(serviceName, otelzap.WithLoggerProvider(lp.provider)),
		minLevel: level,
	}
	return base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, otelCore)
	}))
}

// Shutdown flushes pending records and stops the exporter
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if lp.provider == nil {
		return nil
	}
	if err := lp.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown logger provider: %w", err)
	}
	return nil
}

// levelFilterCore adds a minimum level to the otelzap core, which has none
type levelFilterCore struct {
	zapcore.Core
	minLevel zapcore.Level
}

func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.minLevel && c.Core.Enabled(lvl)
}

func (c *levelFilterCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), minLevel: c.minLevel}
}
