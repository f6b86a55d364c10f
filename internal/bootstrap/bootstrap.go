// Package bootstrap assembles the pieces shared by the service entry points:
// database and schema, the mediator pipeline, the HTTP engine and the server
// lifecycle.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/erp/ordering/internal/application/mediator"
	"github.com/erp/ordering/internal/application/pipeline"
	"github.com/erp/ordering/internal/infrastructure/cache"
	"github.com/erp/ordering/internal/infrastructure/config"
	"github.com/erp/ordering/internal/infrastructure/logger"
	"github.com/erp/ordering/internal/infrastructure/migration"
	"github.com/erp/ordering/internal/infrastructure/persistence"
	"github.com/erp/ordering/internal/infrastructure/telemetry"
	"github.com/erp/ordering/internal/interfaces/http/handler"
	"github.com/erp/ordering/internal/interfaces/http/middleware"
	"github.com/erp/ordering/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// StartTelemetry starts tracing, log export and profiling as configured and
// returns the service logger bridged to the log exporter
func StartTelemetry(ctx context.Context, cfg *config.Config, log *zap.Logger) (*telemetry.Telemetry, *zap.Logger, error) {
	tel, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.App.Name,
		Insecure:          cfg.Telemetry.Insecure,
		DBTraceEnabled:    cfg.Telemetry.DBTraceEnabled,
		DBLogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		DBSlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		Profiling: telemetry.ProfilingConfig{
			Enabled:       cfg.Telemetry.ProfilingEnabled,
			ServerAddress: cfg.Telemetry.PyroscopeAddress,
		},
	}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start telemetry: %w", err)
	}
	return tel, tel.Logger(log, logger.ParseLevel(cfg.Log.Level)), nil
}

// OpenDatabase connects to the configured database and, when auto-migrate is
// on, brings its schema up to date: SQL migrations for postgres, gorm
// auto-migration of models for sqlite. Statement tracing is installed when
// tel enables it.
func OpenDatabase(cfg *config.Config, log *zap.Logger, tel *telemetry.Telemetry, schema string, models ...any) (*persistence.Database, error) {
	if cfg.Database.Driver == config.DriverPostgres && cfg.Database.AutoMigrate {
		if err := migration.Run(cfg.Database.DSN(), schema, log); err != nil {
			return nil, err
		}
	}

	db, err := persistence.NewDatabase(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		return nil, err
	}

	if cfg.Database.Driver == config.DriverSQLite && cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(models...); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	if tel != nil {
		if tracing := tel.DBTracing(cfg.Database.DBName, log); tracing != nil {
			if err := tracing.Register(db.DB); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("failed to enable database tracing: %w", err)
			}
		}
	}
	return db, nil
}

// Pipeline is a mediator wired with the standard behaviors, plus the
// validators and registry the service registers into
type Pipeline struct {
	Mediator *mediator.Mediator
	Rules    *pipeline.Validators
	Registry *prometheus.Registry
	store    pipeline.Store
	tracing  bool
}

// NewPipeline builds the mediator with Logging, Tracing (when tel enables
// it), Metrics, Validation and, when store is non-nil, Caching behaviors, in
// that order
func NewPipeline(service string, store pipeline.Store, tel *telemetry.Telemetry, log *zap.Logger) *Pipeline {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tracing := tel != nil && tel.TracingEnabled()

	rules := pipeline.NewValidators()
	behaviors := []mediator.Behavior{pipeline.NewLoggingBehavior(log)}
	if tracing {
		behaviors = append(behaviors, pipeline.NewTracingBehavior())
	}
	behaviors = append(behaviors,
		pipeline.NewMetricsBehavior(registry, namespace(service)),
		pipeline.NewValidationBehavior(rules),
	)
	if store != nil {
		behaviors = append(behaviors, pipeline.NewCachingBehavior(store, log))
	}

	return &Pipeline{
		Mediator: mediator.New(behaviors...),
		Rules:    rules,
		Registry: registry,
		store:    store,
		tracing:  tracing,
	}
}

// Close releases the cache store if it holds a connection
func (p *Pipeline) Close() error {
	if closer, ok := p.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// NewCacheStore creates the configured query cache store
func NewCacheStore(cfg *config.Config, log *zap.Logger) (pipeline.Store, error) {
	return cache.NewStoreFactory(cfg.Cache, cfg.Redis, cache.WithLogger(log)).CreateStore()
}

// NewEngine builds the HTTP engine for a service and mounts its routes
func NewEngine(cfg *config.Config, log *zap.Logger, p *Pipeline, db *persistence.Database, docs string, routes ...router.RouteRegistrar) (*gin.Engine, error) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	health := handler.NewHealthHandler(cfg.App.Name).
		AddCheck("database", func(context.Context) error { return db.Ping() })

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine, err := router.NewEngine(router.EngineConfig{
		Service:        cfg.App.Name,
		Logger:         log,
		Registry:       p.Registry,
		CORS:           cors,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		Health:         health,
		Tracing:        p.tracing,
		Swagger:        swaggerInstance(cfg, docs),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP engine: %w", err)
	}

	r := router.NewRouter(engine)
	for _, registrar := range routes {
		r.Register(registrar)
	}
	r.Setup()
	return engine, nil
}

func swaggerInstance(cfg *config.Config, docs string) string {
	if !cfg.Swagger.Enabled {
		return ""
	}
	return docs
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// within the configured timeout
func Serve(ctx context.Context, cfg *config.Config, handler http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        handler,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("Server exited gracefully")
	return nil
}

// SeedTimeout bounds startup seeding
const SeedTimeout = 30 * time.Second

var namespaceReplacer = strings.NewReplacer("-", "_", ".", "_")

func namespace(service string) string {
	return namespaceReplacer.Replace(service)
}
