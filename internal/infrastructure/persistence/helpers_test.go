package persistence

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/erp/ordering/internal/domain/order"
	"github.com/erp/ordering/internal/domain/product"
	"github.com/erp/ordering/internal/infrastructure/config"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testClock is a settable NowFunc for deterministic audit timestamps
type testClock struct {
	now atomic.Value
}

func newTestClock(t time.Time) *testClock {
	c := &testClock{}
	c.Set(t)
	return c
}

func (c *testClock) Now() time.Time  { return c.now.Load().(time.Time) }
func (c *testClock) Set(t time.Time) { c.now.Store(t) }
func (c *testClock) Advance(d time.Duration) time.Time {
	next := c.Now().Add(d)
	c.Set(next)
	return next
}

var dbCounter atomic.Int64

// setupTestDB opens a private in-memory sqlite database with the schema of
// both services and the audit hooks installed
func setupTestDB(t *testing.T) (*gorm.DB, *testClock) {
	t.Helper()
	clock := newTestClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	dbCfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   fmt.Sprintf("file:persistence_test_%d?mode=memory&cache=shared", dbCounter.Add(1)),
	}
	db, err := gorm.Open(sqlite.Open(dbCfg.DSN()), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: clock.Now,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, RegisterAuditCallbacks(db))
	require.NoError(t, db.AutoMigrate(&order.Order{}, &order.OrderItem{}, &product.Product{}))
	return db, clock
}
