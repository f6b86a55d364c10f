package telemetry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds OpenTelemetry and profiling settings
type Config struct {
	Enabled           bool    // export traces
	LogsEnabled       bool    // export log records through the zap bridge
	CollectorEndpoint string  // OTLP gRPC endpoint, e.g. "localhost:4317"
	SamplingRatio     float64 // 0.0-1.0
	ServiceName       string
	Insecure          bool // plaintext gRPC, development only

	DBTraceEnabled    bool          // otelgorm statement spans
	DBLogFullSQL      bool          // include bind variables in statement spans
	DBSlowQueryThresh time.Duration // statements slower than this are flagged

	Profiling ProfilingConfig
}

// ProfilingConfig holds Pyroscope settings
type ProfilingConfig struct {
	Enabled       bool
	ServerAddress string // e.g. "http://pyroscope:4040"
}

// Telemetry owns the providers started for one service
type Telemetry struct {
	Tracer   *TracerProvider
	Logs     *LoggerProvider
	Profiler *Profiler
	config   Config
}

// Setup starts the profiler and the trace and log pipelines described by cfg.
// Disabled parts are no-ops.
func Setup(ctx context.Context, cfg Config, logger *zap.Logger) (*Telemetry, error) {
	profiler, err := NewProfiler(cfg, logger)
	if err != nil {
		return nil, err
	}
	tracer, err := NewTracerProvider(ctx, cfg, logger)
	if err != nil {
		_ = profiler.Stop()
		return nil, err
	}
	logs, err := NewLoggerProvider(ctx, cfg, logger)
	if err != nil {
		_ = tracer.Shutdown(ctx)
		_ = profiler.Stop()
		return nil, err
	}
	return &Telemetry{Tracer: tracer, Logs: logs, Profiler: profiler, config: cfg}, nil
}

// TracingEnabled reports whether HTTP and mediator spans should be recorded
func (t *Telemetry) TracingEnabled() bool {
	return t.Tracer.IsEnabled()
}

// DBTracing returns the gorm tracing plugin, or nil when statement tracing
// is off
func (t *Telemetry) DBTracing(dbName string, logger *zap.Logger) *DBTracing {
	if !t.Tracer.IsEnabled() || !t.config.DBTraceEnabled {
		return nil
	}
	return NewDBTracing(t.config, dbName, logger)
}

// Logger bridges base to the log exporter at level and above
func (t *Telemetry) Logger(base *zap.Logger, level zapcore.Level) *zap.Logger {
	return t.Logs.Bridge(base, t.config.ServiceName, level)
}

// Shutdown flushes and stops everything Setup started
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return errors.Join(
		t.Tracer.Shutdown(ctx),
		t.Logs.Shutdown(ctx),
		t.Profiler.Stop(),
	)
}
