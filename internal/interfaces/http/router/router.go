package router

import (
	"github.com/erp/ordering/internal/infrastructure/logger"
	"github.com/erp/ordering/internal/interfaces/http/handler"
	"github.com/erp/ordering/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes under /api/<version>
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// EngineConfig configures the shared middleware chain and the system routes
type EngineConfig struct {
	Service        string
	Logger         *zap.Logger
	Registry       *prometheus.Registry
	CORS           middleware.CORSConfig
	BodyLimit      int64
	TrustedProxies []string
	Health         *handler.HealthHandler
	Tracing        bool   // open an OpenTelemetry span per API request
	Swagger        string // registered swag instance served at /swagger, empty disables it
}

// NewEngine builds a gin engine with request ID, logging, recovery, security
// headers, CORS, body limit and metrics middleware, plus /health and /metrics
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Health == nil {
		cfg.Health = handler.NewHealthHandler(cfg.Service)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger),
		logger.Recovery(cfg.Logger),
		middleware.Secure(),
		middleware.CORSWithConfig(cfg.CORS),
		middleware.BodyLimit(cfg.BodyLimit),
	)

	// probes are registered ahead of the metrics middleware and are not counted
	engine.GET("/health", cfg.Health.Health)
	if cfg.Swagger != "" {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.InstanceName(cfg.Swagger)))
	}

	if cfg.Registry != nil {
		engine.Use(middleware.NewHTTPMetrics(cfg.Registry, metricsNamespace(cfg.Service)).Middleware())
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})))
	}
	if cfg.Tracing {
		engine.Use(middleware.Tracing(cfg.Service)...)
	}

	return engine, nil
}

// metricsNamespace turns a service name into a valid metric namespace
func metricsNamespace(service string) string {
	out := []byte(service)
	for i, b := range out {
		if !(b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_') {
			out[i] = '_'
		}
	}
	return string(out)
}
