// Command product-service serves the product catalog API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	productdocs "github.com/erp/ordering/docs/product"
	productapp "github.com/erp/ordering/internal/application/product"
	"github.com/erp/ordering/internal/bootstrap"
	"github.com/erp/ordering/internal/domain/product"
	"github.com/erp/ordering/internal/infrastructure/config"
	"github.com/erp/ordering/internal/infrastructure/logger"
	"github.com/erp/ordering/internal/infrastructure/persistence"
	"github.com/erp/ordering/internal/interfaces/http/handler"
	"github.com/erp/ordering/migrations"
	"go.uber.org/zap"
)

//go:generate swag init --dir ../../ --generalInfo cmd/product-service/main.go --tags products --output ../../docs/product --packageName product --instanceName product

// @title           Product Service API
// @version         1.0
// @description     Manages the product catalog.
// @BasePath        /api/v1
func main() {
	cfg, err := config.Load("product-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewForService(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	if err := run(cfg, log); err != nil {
		log.Fatal("Product service stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting product service",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database", cfg.Database.Driver),
		zap.String("cache", cfg.Cache.Backend),
	)

	tel, log, err := bootstrap.StartTelemetry(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			log.Error("Failed to shut down telemetry", zap.Error(err))
		}
	}()

	db, err := bootstrap.OpenDatabase(cfg, log, tel, migrations.Product, &product.Product{})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	uows := persistence.NewProductUnitOfWorkFactory(db.DB, log)

	if cfg.Database.Seed {
		if err := seed(uows, log); err != nil {
			return err
		}
	}

	store, err := bootstrap.NewCacheStore(cfg, log)
	if err != nil {
		return err
	}
	p := bootstrap.NewPipeline(cfg.App.Name, store, tel, log)
	defer func() {
		if err := p.Close(); err != nil {
			log.Error("Failed to close cache store", zap.Error(err))
		}
	}()
	productapp.Register(p.Mediator, p.Rules, uows, log)

	engine, err := bootstrap.NewEngine(cfg, log, p, db, productdocs.SwaggerInfo.InstanceName(), handler.NewProductHandler(p.Mediator))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return bootstrap.Serve(ctx, cfg, engine, log)
}

func seed(uows product.UnitOfWorkFactory, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), bootstrap.SeedTimeout)
	defer cancel()

	uow, err := uows()
	if err != nil {
		return err
	}
	defer func() {
		_ = uow.Close()
	}()

	n, err := persistence.SeedProducts(ctx, uow)
	if err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	log.Info("Seeded products", zap.Int("rows", n))
	return nil
}
