package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/erp/ordering/migrations"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Migrator applies one service's schema migrations to a postgres database
type Migrator struct {
	migrate *migrate.Migrate
	service string
	logger  *zap.Logger
}

// VersionTable returns the version table used by a service, so that several
// services can share one database
func VersionTable(service string) string {
	return service + "_schema_migrations"
}

// New creates a Migrator for service using the embedded migrations
func New(db *sql.DB, service string, logger *zap.Logger) (*Migrator, error) {
	return NewWithSource(db, migrations.FS, service, logger)
}

// NewWithSource creates a Migrator reading service's migrations from fsys
func NewWithSource(db *sql.DB, fsys fs.FS, service string, logger *zap.Logger) (*Migrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	source, err := iofs.New(fsys, service)
	if err != nil {
		return nil, fmt.Errorf("failed to open migrations for %q: %w", service, err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: VersionTable(service),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &Migrator{
		migrate: m,
		service: service,
		logger:  logger.With(zap.String("migrations", service)),
	}, nil
}

// Run applies every pending migration of service to the postgres database at
// dsn over a dedicated connection, which is closed afterwards
func Run(dsn, service string, logger *zap.Logger) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}

	m, err := New(db, service, logger)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			m.logger.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	return m.Up()
}

// Up runs all pending migrations
func (m *Migrator) Up() error {
	m.logger.Info("Running migrations up")

	err := m.migrate.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("No migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration up failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info("Migrations completed",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Down rolls back all migrations
func (m *Migrator) Down() error {
	m.logger.Info("Running migrations down")

	err := m.migrate.Down()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("No migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration down failed: %w", err)
	}

	m.logger.Info("All migrations rolled back")
	return nil
}

// Steps applies n migrations (positive = up, negative = down)
func (m *Migrator) Steps(n int) error {
	m.logger.Info("Running migration steps", zap.Int("steps", n))

	err := m.migrate.Steps(n)
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("No migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration steps failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info("Migration steps completed",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Version returns the current migration version, 0 when none is applied
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Force sets the migration version without running migrations.
// It only clears a dirty state left by a failed migration.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))

	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and the database handle passed to New
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("failed to close source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}
	return nil
}
