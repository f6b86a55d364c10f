package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/erp/ordering/internal/infrastructure/config"
	"github.com/erp/ordering/internal/infrastructure/logger"
	"github.com/erp/ordering/internal/infrastructure/migration"
	"github.com/erp/ordering/migrations"
	"go.uber.org/zap"
)

func main() {
	var (
		service  string
		logLevel string
	)

	flag.StringVar(&service, "service", migrations.Order, "Service whose schema to migrate (order, product)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	if service != migrations.Order && service != migrations.Product {
		fmt.Fprintf(os.Stderr, "Unknown service %q\n", service)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	// each service owns its database; config defaults derive from its name
	cfg, err := config.Load(service + "-service")
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatal("SQL migrations target postgres; sqlite databases are migrated by the service at startup",
			zap.String("driver", cfg.Database.Driver))
	}

	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("service", service),
		zap.String("database", cfg.Database.DBName),
	)

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	m, err := migration.New(db, service, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}

	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}

	case "step":
		if len(args) < 2 {
			log.Fatal("Step count required. Usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid step count", zap.String("value", args[1]))
		}
		if err := m.Steps(n); err != nil {
			log.Fatal("Migration step failed", zap.Error(err))
		}

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("Failed to get version", zap.Error(err))
		}
		if version == 0 {
			log.Info("No migrations applied")
		} else {
			log.Info("Current migration version",
				zap.Uint("version", version),
				zap.Bool("dirty", dirty),
			)
		}

	case "force":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		if err := m.Force(version); err != nil {
			log.Fatal("Force version failed", zap.Error(err))
		}

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Ordering Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  version               Show current migration version
  force <version>       Force set migration version after a failed migration

Flags:
  -service string       Schema to migrate: order or product (default: order)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  ORDERING_DATABASE_HOST, ORDERING_DATABASE_PORT, ORDERING_DATABASE_USER,
  ORDERING_DATABASE_PASSWORD, ORDERING_DATABASE_DBNAME, ORDERING_DATABASE_SSLMODE

Examples:
  migrate -service order up
  migrate -service product step -1
  migrate -service product version`)
}
