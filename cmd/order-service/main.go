// Command order-service serves the order API. Order lines are priced from
// the product service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	orderdocs "github.com/erp/ordering/docs/order"
	orderapp "github.com/erp/ordering/internal/application/order"
	"github.com/erp/ordering/internal/bootstrap"
	"github.com/erp/ordering/internal/domain/order"
	"github.com/erp/ordering/internal/infrastructure/config"
	"github.com/erp/ordering/internal/infrastructure/logger"
	"github.com/erp/ordering/internal/infrastructure/persistence"
	"github.com/erp/ordering/internal/infrastructure/productclient"
	"github.com/erp/ordering/internal/interfaces/http/handler"
	"github.com/erp/ordering/migrations"
	"go.uber.org/zap"
)

//go:generate swag init --dir ../../ --generalInfo cmd/order-service/main.go --tags orders --output ../../docs/order --packageName order --instanceName order

// @title           Order Service API
// @version         1.0
// @description     Creates and tracks customer orders priced from the product catalog.
// @BasePath        /api/v1
func main() {
	cfg, err := config.Load("order-service")
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
		log.Fatal("Order service stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting order service",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database", cfg.Database.Driver),
		zap.String("product_service", cfg.ProductService.BaseURL),
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

	db, err := bootstrap.OpenDatabase(cfg, log, tel, migrations.Order, &order.Order{}, &order.OrderItem{})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	uows := persistence.NewOrderUnitOfWorkFactory(db.DB, log)

	if cfg.Database.Seed {
		if err := seed(uows, log); err != nil {
			return err
		}
	}

	products, err := productclient.New(productclient.Config{
		BaseURL:    cfg.ProductService.BaseURL,
		Timeout:    cfg.ProductService.Timeout,
		MaxRetries: cfg.ProductService.MaxRetries,
		RetryStep:  cfg.ProductService.RetryStep,
	}, log)
	if err != nil {
		return err
	}

	// order queries are not cached
	p := bootstrap.NewPipeline(cfg.App.Name, nil, tel, log)
	orderapp.Register(p.Mediator, p.Rules, uows, products, log)

	engine, err := bootstrap.NewEngine(cfg, log, p, db, orderdocs.SwaggerInfo.InstanceName(), handler.NewOrderHandler(p.Mediator))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return bootstrap.Serve(ctx, cfg, engine, log)
}

func seed(uows order.UnitOfWorkFactory, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), bootstrap.SeedTimeout)
	defer cancel()

	uow, err := uows()
	if err != nil {
		return err
	}
	defer func() {
		_ = uow.Close()
	}()

	n, err := persistence.SeedOrders(ctx, uow, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to seed orders: %w", err)
	}
	log.Info("Seeded orders", zap.Int("rows", n))
	return nil
}
