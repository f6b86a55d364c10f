package telemetry

import (
	"fmt"
	"os"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// Profiler wraps the Pyroscope profiler with lifecycle management
type Profiler struct {
	profiler *pyroscope.Profiler
	logger   *zap.Logger
}

// NewProfiler starts continuous profiling when enabled
func NewProfiler(cfg Config, logger *zap.Logger) (*Profiler, error) {
	p := &Profiler{logger: logger}
	if !cfg.Profiling.Enabled {
		return p, nil
	}
	if cfg.Profiling.ServerAddress == "" {
		return nil, fmt.Errorf("profiler server address is required when profiling is enabled")
	}

	tags := map[string]string{}
	if hostname := os.Getenv("HOSTNAME"); hostname != "" {
		tags["hostname"] = hostname
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ServiceName,
		ServerAddress:   cfg.Profiling.ServerAddress,
		Logger:          &pyroscopeLogger{logger: logger.Named("pyroscope").Sugar()},
		Tags:            tags,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start Pyroscope profiler: %w", err)
	}
	p.profiler = profiler

	logger.Info("Pyroscope profiler started",
		zap.String("server_address", cfg.Profiling.ServerAddress),
		zap.String("application_name", cfg.ServiceName),
	)
	return p, nil
}

// IsEnabled reports whether profiles are being collected
func (p *Profiler) IsEnabled() bool {
	return p.profiler != nil
}

// Stop flushes pending profiles. The Pyroscope client takes no context.
func (p *Profiler) Stop() error {
	if p.profiler == nil {
		return nil
	}
	if err := p.profiler.Stop(); err != nil {
		return fmt.Errorf("failed to stop profiler: %w", err)
	}
	p.profiler = nil
	return nil
}

// pyroscopeLogger adapts zap to pyroscope.Logger
type pyroscopeLogger struct {
	logger *zap.SugaredLogger
}

func (l *pyroscopeLogger) Infof(format string, args ...any)  { l.logger.Infof(format, args...) }
func (l *pyroscopeLogger) Debugf(format string, args ...any) { l.logger.Debugf(format, args...) }
func (l *pyroscopeLogger) Errorf(format string, args ...any) { l.logger.Errorf(format, args...) }
