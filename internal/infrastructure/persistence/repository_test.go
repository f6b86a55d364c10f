package persistence

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/erp/ordering/internal/domain/order"
	"github.com/erp/ordering/internal/domain/product"
	"github.com/erp/ordering/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProductUoW(t *testing.T, db *gorm.DB) *ProductUnitOfWork {
	t.Helper()
	uow, err := NewProductUnitOfWork(db, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = uow.Close() })
	return uow
}

func newOrderUoW(t *testing.T, db *gorm.DB) *OrderUnitOfWork {
	t.Helper()
	uow, err := NewOrderUnitOfWork(db, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = uow.Close() })
	return uow
}

func seedProducts(t *testing.T, db *gorm.DB, n int) []*product.Product {
	t.Helper()
	uow := newProductUoW(t, db)
	ctx := context.Background()
	products := make([]*product.Product, 0, n)
	for i := 0; i < n; i++ {
		p := product.NewProduct(
			"Product "+string(rune('A'+i)),
			decimal.NewFromInt(int64(10*(i+1))),
			i+1,
		)
		_, err := uow.Products().Add(ctx, p)
		require.NoError(t, err)
		products = append(products, p)
	}
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	return products
}

func newTestOrder(customer string, items ...order.OrderItem) *order.Order {
	o, _ := order.NewOrder(customer, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), items)
	return o
}

func TestRepository_AddAndSaveChanges(t *testing.T) {
	db, clock := setupTestDB(t)
	ctx := context.Background()
	uow := newProductUoW(t, db)

	p := product.NewProduct("Keyboard", decimal.RequireFromString("49.90"), 3)
	returned, err := uow.Products().Add(ctx, p)
	require.NoError(t, err)
	assert.Same(t, p, returned)
	assert.Zero(t, p.ID, "identity is assigned on save")
	assert.True(t, p.CreatedAt.IsZero())

	n, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NotZero(t, p.ID)
	assert.True(t, p.CreatedAt.Equal(clock.Now()))
	assert.True(t, p.UpdatedAt.Equal(clock.Now()))

	found, err := newProductUoW(t, db).Products().Find(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Keyboard", found.Description)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("49.90")))
	assert.True(t, found.CreatedAt.Equal(clock.Now()))
}

func TestRepository_NothingWrittenBeforeSave(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()
	uow := newProductUoW(t, db)

	_, err := uow.Products().Add(ctx, product.NewProduct("Staged", decimal.NewFromInt(1), 1))
	require.NoError(t, err)

	count, err := newProductUoW(t, db).Products().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, uow.Close())
	_, err = uow.SaveChanges(ctx)
	assert.ErrorIs(t, err, ErrSessionClosed)

	count, err = newProductUoW(t, db).Products().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRepository_Find(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()
	seeded := seedProducts(t, db, 2)
	repo := newProductUoW(t, db).Products()

	t.Run("returns entity by id", func(t *testing.T) {
		p, err := repo.Find(ctx, seeded[1].ID)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, seeded[1].Description, p.Description)
	})

	t.Run("absent id yields nil without error", func(t *testing.T) {
		p, err := repo.Find(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestRepository_GetEntityAndList(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()
	seedProducts(t, db, 5)
	repo := newProductUoW(t, db).Products()

	t.Run("filters and orders", func(t *testing.T) {
		list, err := repo.GetList(ctx,
			shared.Where(shared.Gte(product.FieldStock, 2), shared.Lt(product.FieldStock, 5)),
			shared.OrderBy(shared.Desc(product.FieldStock)),
		)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, 4, list[0].Stock)
		assert.Equal(t, 3, list[1].Stock)
		assert.Equal(t, 2, list[2].Stock)
	})

	t.Run("no predicate returns everything", func(t *testing.T) {
		list, err := repo.GetList(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 5)
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		list, err := repo.GetList(ctx, shared.Where(shared.Eq(product.FieldDescription, "missing")))
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("IN and LIKE operators", func(t *testing.T) {
		list, err := repo.GetList(ctx, shared.Where(shared.In(product.FieldStock, []int{1, 5})))
		require.NoError(t, err)
		assert.Len(t, list, 2)

		list, err = repo.GetList(ctx, shared.Where(shared.Like(product.FieldDescription, "Product %")))
		require.NoError(t, err)
		assert.Len(t, list, 5)
	})

	t.Run("GetEntity returns first match", func(t *testing.T) {
		p, err := repo.GetEntity(ctx,
			shared.Where(shared.Gt(product.FieldStock, 2)),
			shared.OrderBy(shared.Asc(product.FieldStock)),
		)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, 3, p.Stock)
	})

	t.Run("GetEntity absent yields nil", func(t *testing.T) {
		p, err := repo.GetEntity(ctx, shared.Where(shared.Gt(product.FieldStock, 100)))
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("projection keeps the key", func(t *testing.T) {
		list, err := repo.GetList(ctx, shared.Select(product.FieldStock), shared.OrderBy(shared.Asc(product.FieldStock)))
		require.NoError(t, err)
		require.Len(t, list, 5)
		assert.NotZero(t, list[0].ID)
		assert.Equal(t, 1, list[0].Stock)
		assert.Empty(t, list[0].Description)
	})

	t.Run("unknown field fails", func(t *testing.T) {
		_, err := repo.GetList(ctx, shared.Where(shared.Eq("Colour", "red")))
		require.Error(t, err)
		assert.True(t, shared.IsInvalidOperation(err))
	})
}

func TestRepository_GetListPaginated(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()
	seedProducts(t, db, 7)
	repo := newProductUoW(t, db).Products()

	t.Run("page count is constant across pages", func(t *testing.T) {
		for page := 1; page <= 4; page++ {
			result, err := repo.GetListPaginated(ctx, page, 3)
			require.NoError(t, err)
			assert.Equal(t, int64(7), result.RowsCount)
			assert.Equal(t, 3, result.PageCount)
			assert.Equal(t, page, result.CurrentPage)
			assert.Equal(t, 3, result.PageSize)
		}
	})

	t.Run("pages slice the ordered set", func(t *testing.T) {
		first, err := repo.GetListPaginated(ctx, 1, 3, shared.OrderBy(shared.Asc(product.FieldStock)))
		require.NoError(t, err)
		require.Len(t, first.Results, 3)
		assert.Equal(t, 1, first.Results[0].Stock)

		last, err := repo.GetListPaginated(ctx, 3, 3, shared.OrderBy(shared.Asc(product.FieldStock)))
		require.NoError(t, err)
		require.Len(t, last.Results, 1)
		assert.Equal(t, 7, last.Results[0].Stock)
	})

	t.Run("out of range page is empty with correct total", func(t *testing.T) {
		result, err := repo.GetListPaginated(ctx, 10, 3)
		require.NoError(t, err)
		assert.Empty(t, result.Results)
		assert.NotNil(t, result.Results)
		assert.Equal(t, int64(7), result.RowsCount)
		assert.Equal(t, 3, result.PageCount)
	})

	t.Run("page far past the end does not wrap around", func(t *testing.T) {
		for _, page := range []int{math.MaxInt/3 + 2, math.MaxInt} {
			result, err := repo.GetListPaginated(ctx, page, 3)
			require.NoError(t, err)
			assert.Empty(t, result.Results, "page %d", page)
			assert.Equal(t, int64(7), result.RowsCount)
			assert.Equal(t, page, result.CurrentPage)
		}
	})

	t.Run("last page boundary", func(t *testing.T) {
		result, err := repo.GetListPaginated(ctx, 3, 3)
		require.NoError(t, err)
		assert.Len(t, result.Results, 1)

		result, err = repo.GetListPaginated(ctx, 4, 3)
		require.NoError(t, err)
		assert.Empty(t, result.Results)
	})

	t.Run("total counts the filtered set", func(t *testing.T) {
		result, err := repo.GetListPaginated(ctx, 1, 2, shared.Where(shared.Gt(product.FieldStock, 4)))
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.RowsCount)
		assert.Equal(t, 2, result.PageCount)
		assert.Len(t, result.Results, 2)
	})

	t.Run("non-positive page size is rejected", func(t *testing.T) {
		_, err := repo.GetListPaginated(ctx, 1, 0)
		require.Error(t, err)
		assert.True(t, shared.IsInvalidOperation(err))
	})

	t.Run("page below one reads the first page", func(t *testing.T) {
		result, err := repo.GetListPaginated(ctx, 0, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, result.CurrentPage)
		assert.Len(t, result.Results, 5)
	})
}

func TestRepository_Includes(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	uow := newOrderUoW(t, db)
	o := newTestOrder("CUST-1",
		order.OrderItem{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
		order.OrderItem{ProductID: 2, Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
	)
	_, err := uow.Orders().Add(ctx, o)
	require.NoError(t, err)
	_, err = uow.SaveChanges(ctx)
	require.NoError(t, err)

	repo := newOrderUoW(t, db).Orders()

	t.Run("without include items are not loaded", func(t *testing.T) {
		got, err := repo.GetEntity(ctx, shared.Where(shared.Eq(shared.FieldID, o.ID)))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Empty(t, got.Items)
	})

	t.Run("include loads items", func(t *testing.T) {
		got, err := repo.GetEntity(ctx,
			shared.Where(shared.Eq(shared.FieldID, o.ID)),
			shared.WithIncludes(order.IncludeItems),
		)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Len(t, got.Items, 2)
		for _, item := range got.Items {
			assert.Equal(t, o.ID, item.OrderID)
			assert.False(t, item.CreatedAt.IsZero(), "items are stamped through the association save")
		}
	})

	t.Run("unknown include fails loudly", func(t *testing.T) {
		_, err := repo.GetList(ctx, shared.WithIncludes("Customer"))
		require.Error(t, err)
		assert.True(t, shared.IsInvalidOperation(err))
	})
}

func TestRepository_UpdateFields(t *testing.T) {
	db, clock := setupTestDB(t)
	ctx := context.Background()
	seeded := seedProducts(t, db, 1)
	created := clock.Now()

	uow := newProductUoW(t, db)
	p, err := uow.Products().GetEntity(ctx, shared.Where(shared.Eq(shared.FieldID, seeded[0].ID)))
	require.NoError(t, err)
	require.NotNil(t, p)

	p.Stock = 42
	p.Description = "not written"
	_, err = uow.Products().UpdateFields(ctx, p, product.FieldStock)
	require.NoError(t, err)

	later := clock.Advance(time.Hour)
	_, err = uow.SaveChanges(ctx)
	require.NoError(t, err)

	stored, err := newProductUoW(t, db).Products().Find(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, stored.Stock)
	assert.Equal(t, seeded[0].Description, stored.Description)
	assert.True(t, stored.CreatedAt.Equal(created))
	assert.True(t, stored.UpdatedAt.Equal(later))
}

func TestRepository_UpdateFields_ProtectedStagesNothing(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()
	seeded := seedProducts(t, db, 1)

	for _, field := range []string{shared.FieldID, shared.FieldCreatedAt, shared.FieldUpdatedAt} {
		t.Run(field, func(t *testing.T) {
			uow := newProductUoW(t, db)
			p, err := uow.Products().Find(ctx, seeded[0].ID)
			require.NoError(t, err)

			_, err = uow.Products().UpdateFields(ctx, p, product.FieldStock, field)
			require.Error(t, err)
			assert.True(t, shared.IsInvalidOperation(err))
			assert.Zero(t, uow.session.Pending())

			n, err := uow.SaveChanges(ctx)
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestRepository_Update(t *testing.T) {
	db, clock := setupTestDB(t)
	ctx := context.Background()
	seeded := seedProducts(t, db, 1)
	created := clock.Now()

	uow := newProductUoW(t, db)
	p := &product.Product{}
	p.ID = seeded[0].ID
	p.Apply("Replaced", decimal.RequireFromString("12.34"), 0)
	uow.Products().Update(p)

	later := clock.Advance(time.Minute)
	n, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := newProductUoW(t, db).Products().Find(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Replaced", stored.Description)
	assert.Equal(t, 0, stored.Stock, "zero values are written by a full update")
	assert.True(t, stored.Price.Equal(decimal.RequireFromString("12.34")))
	assert.True(t, stored.CreatedAt.Equal(created), "CreatedAt survives a full update")
	assert.True(t, stored.UpdatedAt.Equal(later))
}

func TestRepository_TrackedChangesAreDetected(t *testing.T) {
	db, clock := setupTestDB(t)
	ctx := context.Background()
	seeded := seedProducts(t, db, 2)

	uow := newProductUoW(t, db)
	tracked, err := uow.Products().GetList(ctx, shared.Tracked(), shared.OrderBy(shared.Asc(shared.FieldID)))
	require.NoError(t, err)
	require.Len(t, tracked, 2)

	untracked, err := uow.Products().GetEntity(ctx, shared.Where(shared.Eq(shared.FieldID, seeded[1].ID)))
	require.NoError(t, err)

	tracked[0].Stock = 99
	untracked.Stock = 77
	later := clock.Advance(time.Minute)

	n, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	repo := newProductUoW(t, db).Products()
	first, err := repo.Find(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 99, first.Stock)
	assert.True(t, first.UpdatedAt.Equal(later))

	second, err := repo.Find(ctx, seeded[1].ID)
	require.NoError(t, err)
	assert.Equal(t, seeded[1].Stock, second.Stock)

	n, err = uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "a saved change is not written twice")
}

func TestRepository_DeleteCascadesToItems(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	uow := newOrderUoW(t, db)
	keep := newTestOrder("KEEP", order.OrderItem{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(5)})
	drop := newTestOrder("DROP",
		order.OrderItem{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(5)},
		order.OrderItem{ProductID: 2, Quantity: 3, UnitPrice: decimal.NewFromInt(7)},
	)
	_, err := uow.Orders().Add(ctx, keep)
	require.NoError(t, err)
	_, err = uow.Orders().Add(ctx, drop)
	require.NoError(t, err)
	_, err = uow.SaveChanges(ctx)
	require.NoError(t, err)

	del := newOrderUoW(t, db)
	target, err := del.Orders().Find(ctx, drop.ID)
	require.NoError(t, err)
	require.NotNil(t, target)
	assert.Empty(t, target.Items, "cascade does not depend on loaded items")
	del.Orders().Delete(target)
	_, err = del.SaveChanges(ctx)
	require.NoError(t, err)

	check := newOrderUoW(t, db)
	orphaned, err := check.OrderItems().Exists(ctx, shared.Eq(order.FieldOrderID, drop.ID))
	require.NoError(t, err)
	assert.False(t, orphaned)

	remaining, err := check.OrderItems().GetList(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, keep.ID, remaining[0].OrderID)

	gone, err := check.Orders().Find(ctx, drop.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestRepository_SaveChangesIsAtomic(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()
	seeded := seedProducts(t, db, 1)

	uow := newProductUoW(t, db)
	_, err := uow.Products().Add(ctx, product.NewProduct("fresh", decimal.NewFromInt(1), 1))
	require.NoError(t, err)

	clash := product.NewProduct("clash", decimal.NewFromInt(1), 1)
	clash.ID = seeded[0].ID
	_, err = uow.Products().Add(ctx, clash)
	require.NoError(t, err)

	_, err = uow.SaveChanges(ctx)
	require.Error(t, err)

	count, err := newProductUoW(t, db).Products().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_SavedOrderTracksItems(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	uow := newOrderUoW(t, db)
	o := newTestOrder("CUST-7",
		order.OrderItem{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(4)},
		order.OrderItem{ProductID: 2, Quantity: 1, UnitPrice: decimal.NewFromInt(9)},
	)
	_, err := uow.Orders().Add(ctx, o)
	require.NoError(t, err)

	_, err = uow.SaveChanges(ctx)
	require.NoError(t, err)
	require.NotZero(t, o.ID)
	assert.Len(t, uow.session.tracked, 3, "the order and both items are tracked")

	o.Items[1].Quantity = 5
	n, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	item, err := newOrderUoW(t, db).OrderItems().Find(ctx, o.Items[1].ID)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 5, item.Quantity)
}

func TestRepository_RollbackResetsStagedInserts(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	first := newOrderUoW(t, db)
	existing := newTestOrder("EXISTING", order.OrderItem{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(3)})
	_, err := first.Orders().Add(ctx, existing)
	require.NoError(t, err)
	_, err = first.SaveChanges(ctx)
	require.NoError(t, err)

	uow := newOrderUoW(t, db)
	fresh := newTestOrder("FRESH",
		order.OrderItem{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(3)},
		order.OrderItem{ProductID: 2, Quantity: 2, UnitPrice: decimal.NewFromInt(6)},
	)
	clash := newTestOrder("CLASH")
	clash.ID = existing.ID
	_, err = uow.Orders().Add(ctx, fresh)
	require.NoError(t, err)
	_, err = uow.Orders().Add(ctx, clash)
	require.NoError(t, err)

	_, err = uow.SaveChanges(ctx)
	require.Error(t, err)

	assert.Zero(t, fresh.ID)
	assert.True(t, fresh.CreatedAt.IsZero())
	assert.True(t, fresh.UpdatedAt.IsZero())
	for _, item := range fresh.Items {
		assert.Zero(t, item.ID)
		assert.Zero(t, item.OrderID)
		assert.True(t, item.CreatedAt.IsZero())
	}
	assert.Equal(t, existing.ID, clash.ID, "an explicit key is kept")

	retry := newOrderUoW(t, db)
	_, err = retry.Orders().Add(ctx, fresh)
	require.NoError(t, err)
	_, err = retry.SaveChanges(ctx)
	require.NoError(t, err)
	assert.NotZero(t, fresh.ID)

	count, err := newOrderUoW(t, db).OrderItems().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestRepository_BulkOperations(t *testing.T) {
	db, clock := setupTestDB(t)
	ctx := context.Background()
	seedProducts(t, db, 4)
	repo := newProductUoW(t, db).Products()

	t.Run("UpdateMany writes server side and stamps UpdatedAt", func(t *testing.T) {
		later := clock.Advance(time.Hour)
		n, err := repo.UpdateMany(ctx,
			[]shared.Condition{shared.Lte(product.FieldStock, 2)},
			map[string]any{product.FieldStock: 0},
		)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		empty, err := repo.GetList(ctx, shared.Where(shared.Eq(product.FieldStock, 0)))
		require.NoError(t, err)
		require.Len(t, empty, 2)
		for _, p := range empty {
			assert.True(t, p.UpdatedAt.Equal(later))
		}
	})

	t.Run("UpdateMany rejects protected fields", func(t *testing.T) {
		_, err := repo.UpdateMany(ctx, nil, map[string]any{shared.FieldCreatedAt: time.Now()})
		require.Error(t, err)
		assert.True(t, shared.IsInvalidOperation(err))
	})

	t.Run("DeleteMany removes matches", func(t *testing.T) {
		n, err := repo.DeleteMany(ctx, shared.Eq(product.FieldStock, 0))
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("Exists", func(t *testing.T) {
		ok, err := repo.Exists(ctx, shared.Eq(product.FieldStock, 4))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Exists(ctx, shared.Eq(product.FieldStock, 1))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("FromSQL maps rows", func(t *testing.T) {
		list, err := repo.FromSQL(ctx, "SELECT * FROM products WHERE stock > ? ORDER BY stock", 3)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, 4, list[0].Stock)
	})
}

func TestSeed(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	n, err := SeedProducts(ctx, newProductUoW(t, db))
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	n, err = SeedProducts(ctx, newProductUoW(t, db))
	require.NoError(t, err)
	assert.Zero(t, n, "seeding is skipped when rows exist")

	_, err = SeedOrders(ctx, newOrderUoW(t, db), time.Now())
	require.NoError(t, err)

	orders, err := newOrderUoW(t, db).Orders().GetList(ctx,
		shared.WithIncludes(order.IncludeItems),
		shared.OrderBy(shared.Asc(order.FieldCustomerID)),
	)
	require.NoError(t, err)
	require.Len(t, orders, 5)
	assert.Equal(t, order.StatusPending, orders[0].Status)
	assert.Len(t, orders[0].Items, 2)
	assert.True(t, orders[0].TotalAmount.Equal(decimal.RequireFromString("1699.99")))
}
