package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	productdocs "github.com/erp/ordering/docs/product"
	"github.com/erp/ordering/internal/application/mediator"
	productapp "github.com/erp/ordering/internal/application/product"
	"github.com/erp/ordering/internal/domain/product"
	"github.com/erp/ordering/internal/infrastructure/cache"
	"github.com/erp/ordering/internal/infrastructure/config"
	"github.com/erp/ordering/internal/infrastructure/persistence"
	"github.com/erp/ordering/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(name string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "product-service", Env: "test", Port: "0"},
		Database: config.DatabaseConfig{
			Driver:      config.DriverSQLite,
			Path:        "file:" + name + "?mode=memory&cache=shared",
			AutoMigrate: true,
		},
		Cache: config.CacheConfig{Backend: config.CacheBackendMemory, DefaultTTL: time.Minute},
		Log:   config.LogConfig{Level: "error"},
		HTTP: config.HTTPConfig{
			ShutdownTimeout:  time.Second,
			CORSAllowMethods: []string{"GET"},
		},
	}
}

func TestOpenDatabase_SQLiteAutoMigrate(t *testing.T) {
	cfg := testConfig("bootstrap_open")
	db, err := OpenDatabase(cfg, zap.NewNop(), nil, "product", &product.Product{})
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, db.DB.Migrator().HasTable(&product.Product{}))
}

func TestNewPipeline(t *testing.T) {
	t.Run("caching store is closed with the pipeline", func(t *testing.T) {
		store, err := NewCacheStore(testConfig("bootstrap_cache"), zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &cache.MemoryStore{}, store)

		p := NewPipeline("product-service", store, nil, zap.NewNop())
		assert.NoError(t, p.Close())
	})

	t.Run("requests are counted under the service namespace", func(t *testing.T) {
		p := NewPipeline("order-service", nil, nil, zap.NewNop())
		mediator.RegisterFunc(p.Mediator, func(context.Context, string) (int, error) { return 1, nil })

		_, err := mediator.Send[int](context.Background(), p.Mediator, "ping")
		require.NoError(t, err)

		families, err := p.Registry.Gather()
		require.NoError(t, err)
		var names []string
		for _, f := range families {
			names = append(names, f.GetName())
		}
		assert.Contains(t, names, "order_service_mediator_requests_total")
		assert.NoError(t, p.Close())
	})
}

func TestNewEngine(t *testing.T) {
	cfg := testConfig("bootstrap_engine")
	log := zap.NewNop()

	db, err := OpenDatabase(cfg, log, nil, "product", &product.Product{})
	require.NoError(t, err)
	defer db.Close()

	store, err := NewCacheStore(cfg, log)
	require.NoError(t, err)
	p := NewPipeline(cfg.App.Name, store, nil, log)
	productapp.Register(p.Mediator, p.Rules, persistence.NewProductUnitOfWorkFactory(db.DB, log), log)

	cfg.Swagger.Enabled = true
	engine, err := NewEngine(cfg, log, p, db, productdocs.SwaggerInfo.InstanceName(), handler.NewProductHandler(p.Mediator))
	require.NoError(t, err)

	for _, path := range []string{"/health", "/metrics", "/api/v1/products", "/swagger/doc.json"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	require.NoError(t, db.Close())
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestServe_Shutdown(t *testing.T) {
	cfg := testConfig("bootstrap_serve")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, cfg, http.NotFoundHandler(), zap.NewNop())
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestSwaggerInstance(t *testing.T) {
	cfg := testConfig("bootstrap_swagger")
	assert.Empty(t, swaggerInstance(cfg, "product"))

	cfg.Swagger.Enabled = true
	assert.Equal(t, "product", swaggerInstance(cfg, "product"))
}

func TestNamespace(t *testing.T) {
	assert.Equal(t, "order_service", namespace("order-service"))
	assert.Equal(t, "product_service_v2", namespace("product-service.v2"))
}

func TestStartTelemetry_Disabled(t *testing.T) {
	cfg := testConfig("bootstrap_telemetry")
	base := zap.NewNop()

	tel, log, err := StartTelemetry(context.Background(), cfg, base)
	require.NoError(t, err)
	assert.Same(t, base, log)
	assert.False(t, tel.TracingEnabled())

	p := NewPipeline(cfg.App.Name, nil, tel, log)
	assert.False(t, p.tracing)
	assert.NoError(t, tel.Shutdown(context.Background()))
}
