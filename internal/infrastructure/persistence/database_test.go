package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/ordering/internal/domain/order"
	"github.com/erp/ordering/internal/domain/product"
	"github.com/erp/ordering/internal/domain/shared"
	"github.com/erp/ordering/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newMockDatabase creates a Database instance with a mocked SQL connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:                func() time.Time { return fixed },
	})
	require.NoError(t, err)
	require.NoError(t, RegisterAuditCallbacks(gormDB))

	return &Database{DB: gormDB}, mock, mockDB
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Driver: "oracle"}, nil, gormlogger.Silent)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestNewDatabase_SQLite(t *testing.T) {
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:          config.DriverSQLite,
		Path:            "file:new_database_test?mode=memory&cache=shared",
		ConnMaxLifetime: 60,
		ConnMaxIdleTime: 30,
	}, nil, gormlogger.Silent)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.AutoMigrate(&product.Product{}))
	assert.NoError(t, db.Ping())

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestNewDatabase_SQLiteCascadesDeletes(t *testing.T) {
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   "file:cascade_database_test?mode=memory&cache=shared",
	}, nil, gormlogger.Silent)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.AutoMigrate(&order.Order{}, &order.OrderItem{}))

	ctx := context.Background()
	uow, err := NewOrderUnitOfWork(db.DB, nil)
	require.NoError(t, err)
	defer uow.Close()

	o, err := order.NewOrder("CUST-FK", time.Now().UTC(), []order.OrderItem{
		{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(2)},
	})
	require.NoError(t, err)
	_, err = uow.Orders().Add(ctx, o)
	require.NoError(t, err)
	_, err = uow.SaveChanges(ctx)
	require.NoError(t, err)

	deleted, err := uow.Orders().DeleteMany(ctx, shared.Eq(shared.FieldID, o.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	remaining, err := uow.OrderItems().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, remaining)
}

func TestDatabase_Ping(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectPing()

	assert.NoError(t, db.Ping())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()

	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Stats(t *testing.T) {
	db, _, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	stats, err := db.Stats()
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
	assert.GreaterOrEqual(t, stats.WaitDuration, time.Duration(0))
}

func TestRepositorySQL_Paginated(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	uow, err := NewProductUnitOfWork(db.DB, nil)
	require.NoError(t, err)
	defer uow.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE "products"."stock" > \$1`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE "products"."stock" > \$1 ORDER BY "products"."id" LIMIT \$2 OFFSET \$3`).
		WithArgs(3, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "price", "stock"}).
			AddRow(3, "C", "30.00", 4).
			AddRow(4, "D", "40.00", 5))

	page, err := uow.Products().GetListPaginated(context.Background(), 2, 2,
		shared.Where(shared.Gt(product.FieldStock, 3)))
	require.NoError(t, err)

	assert.Equal(t, int64(5), page.RowsCount)
	assert.Equal(t, 3, page.PageCount)
	assert.Len(t, page.Results, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySQL_PaginatedSkipsQueryPastEnd(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	uow, err := NewProductUnitOfWork(db.DB, nil)
	require.NoError(t, err)
	defer uow.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	page, err := uow.Products().GetListPaginated(context.Background(), 5, 10)
	require.NoError(t, err)

	assert.Empty(t, page.Results)
	assert.Equal(t, 1, page.PageCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySQL_UpdateFieldsWritesOnlyMask(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	uow, err := NewProductUnitOfWork(db.DB, nil)
	require.NoError(t, err)
	defer uow.Close()

	p := product.NewProduct("Widget", decimal.NewFromInt(10), 1)
	p.ID = 7
	p.Stock = 12

	_, err = uow.Products().UpdateFields(context.Background(), p, product.FieldStock)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "products" SET "updated_at"=\$1,"stock"=\$2 WHERE "id" = \$3`).
		WithArgs(sqlmock.AnyArg(), 12, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := uow.SaveChanges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySQL_SaveChangesRollsBack(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	uow, err := NewProductUnitOfWork(db.DB, nil)
	require.NoError(t, err)
	defer uow.Close()

	p := product.NewProduct("Widget", decimal.NewFromInt(10), 1)
	p.ID = 7
	uow.Products().Delete(p)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "products" WHERE "products"."id" = \$1`).
		WithArgs(7).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err = uow.SaveChanges(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySQL_Exists(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	uow, err := NewProductUnitOfWork(db.DB, nil)
	require.NoError(t, err)
	defer uow.Close()

	mock.ExpectQuery(`SELECT "id" FROM "products" WHERE "products"."description" = \$1 LIMIT \$2`).
		WithArgs("Widget", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	ok, err := uow.Products().Exists(context.Background(), shared.Eq(product.FieldDescription, "Widget"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
