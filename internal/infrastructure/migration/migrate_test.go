package migration

import (
	"io"
	"testing"

	"github.com/erp/ordering/migrations"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	tests := []struct {
		service string
		tables  []string
	}{
		{service: migrations.Order, tables: []string{"orders", "order_items"}},
		{service: migrations.Product, tables: []string{"products"}},
	}

	for _, tt := range tests {
		t.Run(tt.service, func(t *testing.T) {
			source, err := iofs.New(migrations.FS, tt.service)
			require.NoError(t, err)
			defer source.Close()

			first, err := source.First()
			require.NoError(t, err)
			assert.Equal(t, uint(1), first)

			up, _, err := source.ReadUp(first)
			require.NoError(t, err)
			upSQL, err := io.ReadAll(up)
			require.NoError(t, err)
			_ = up.Close()

			down, _, err := source.ReadDown(first)
			require.NoError(t, err)
			downSQL, err := io.ReadAll(down)
			require.NoError(t, err)
			_ = down.Close()

			for _, table := range tt.tables {
				assert.Contains(t, string(upSQL), "CREATE TABLE IF NOT EXISTS "+table)
				assert.Contains(t, string(downSQL), "DROP TABLE IF EXISTS "+table)
			}
		})
	}
}

func TestVersionTable(t *testing.T) {
	assert.Equal(t, "order_schema_migrations", VersionTable(migrations.Order))
	assert.Equal(t, "product_schema_migrations", VersionTable(migrations.Product))
}
