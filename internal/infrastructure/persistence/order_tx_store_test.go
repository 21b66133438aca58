package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/commerce/backend/internal/domain/catalog"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedProduct(t *testing.T, db *gorm.DB, tenantID uuid.UUID, stock int64, tracked bool) *catalog.Product {
	t.Helper()

	product, err := catalog.NewProduct(tenantID, uuid.New(), "Seeded Product", catalog.UnitPiece)
	require.NoError(t, err)
	price := decimal.RequireFromString("10.00")
	require.NoError(t, product.SetPricing(&price, nil))
	if tracked {
		require.NoError(t, product.EnableStockTracking(stock))
	}
	require.NoError(t, product.Publish())
	require.NoError(t, db.Create(product).Error)
	return product
}

func buildOrder(t *testing.T, tenantID uuid.UUID, product *catalog.Product, quantity int64) *trade.SalesOrder {
	t.Helper()

	order, err := trade.NewSalesOrder(tenantID, uuid.New(), trade.GenerateOrderNumber(), nil,
		trade.OrderStatusPaid,
		[]trade.SalesOrderItem{{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    quantity,
			UnitPrice:   product.EffectivePrice(),
		}},
		[]trade.OrderPayment{{
			Amount: product.EffectivePrice().Mul(decimal.NewFromInt(quantity)),
			Method: trade.PaymentMethodCash,
		}})
	require.NoError(t, err)
	return order
}

func currentStock(t *testing.T, db *gorm.DB, id uuid.UUID) int64 {
	t.Helper()
	var product catalog.Product
	require.NoError(t, db.First(&product, "id = ?", id).Error)
	return product.Stock
}

func TestGormOrderTxStoreFetchProducts(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	store := NewGormOrderTxStore(db)

	tenantID := uuid.New()
	otherTenant := uuid.New()
	mine := seedProduct(t, db, tenantID, 5, true)
	foreign := seedProduct(t, db, otherTenant, 5, true)

	t.Run("returns products across tenants", func(t *testing.T) {
		products, err := store.FetchProducts(ctx, []uuid.UUID{mine.ID, foreign.ID})
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, tenantID, products[mine.ID].TenantID)
		assert.Equal(t, otherTenant, products[foreign.ID].TenantID)
	})

	t.Run("missing ids are absent", func(t *testing.T) {
		products, err := store.FetchProducts(ctx, []uuid.UUID{mine.ID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, products, 1)
	})

	t.Run("empty id list yields empty map", func(t *testing.T) {
		products, err := store.FetchProducts(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}

func TestGormOrderTxStoreCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts order and decrements stock atomically", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewGormOrderTxStore(db)
		tenantID := uuid.New()
		product := seedProduct(t, db, tenantID, 10, true)
		order := buildOrder(t, tenantID, product, 2)

		err := store.Commit(ctx, []trade.TxOp{
			store.InsertOrderOp(order),
			store.DecrementStockOp(product.ID, tenantID, 2),
		})
		require.NoError(t, err)

		assert.Equal(t, int64(8), currentStock(t, db, product.ID))

		var persisted trade.SalesOrder
		require.NoError(t, db.Preload("Items").Preload("Payments").First(&persisted, "id = ?", order.ID).Error)
		assert.Equal(t, order.OrderNumber, persisted.OrderNumber)
		assert.Len(t, persisted.Items, 1)
		assert.Len(t, persisted.Payments, 1)
	})

	t.Run("insufficient stock rolls back the order insert", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewGormOrderTxStore(db)
		tenantID := uuid.New()
		product := seedProduct(t, db, tenantID, 1, true)
		order := buildOrder(t, tenantID, product, 2)

		err := store.Commit(ctx, []trade.TxOp{
			store.InsertOrderOp(order),
			store.DecrementStockOp(product.ID, tenantID, 2),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

		assert.Equal(t, int64(1), currentStock(t, db, product.ID))

		var count int64
		require.NoError(t, db.Model(&trade.SalesOrder{}).Count(&count).Error)
		assert.Zero(t, count, "no order row may survive a failed commit")
	})

	t.Run("stock can be drained exactly to zero", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewGormOrderTxStore(db)
		tenantID := uuid.New()
		product := seedProduct(t, db, tenantID, 3, true)
		order := buildOrder(t, tenantID, product, 3)

		err := store.Commit(ctx, []trade.TxOp{
			store.InsertOrderOp(order),
			store.DecrementStockOp(product.ID, tenantID, 3),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), currentStock(t, db, product.ID))

		// The next sale finds no stock left
		second := buildOrder(t, tenantID, product, 1)
		err = store.Commit(ctx, []trade.TxOp{
			store.InsertOrderOp(second),
			store.DecrementStockOp(product.ID, tenantID, 1),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
		assert.Equal(t, int64(0), currentStock(t, db, product.ID))
	})

	t.Run("decrement is tenant scoped", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewGormOrderTxStore(db)
		tenantID := uuid.New()
		product := seedProduct(t, db, tenantID, 10, true)

		err := store.Commit(ctx, []trade.TxOp{
			store.DecrementStockOp(product.ID, uuid.New(), 1),
		})
		require.Error(t, err)
		assert.Equal(t, int64(10), currentStock(t, db, product.ID))
	})

	t.Run("untracked product refuses direct decrement", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewGormOrderTxStore(db)
		tenantID := uuid.New()
		product := seedProduct(t, db, tenantID, 0, false)

		err := store.Commit(ctx, []trade.TxOp{
			store.DecrementStockOp(product.ID, tenantID, 1),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
	})

	t.Run("duplicate order number fails the commit", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewGormOrderTxStore(db)
		tenantID := uuid.New()
		product := seedProduct(t, db, tenantID, 10, true)

		first := buildOrder(t, tenantID, product, 1)
		require.NoError(t, store.Commit(ctx, []trade.TxOp{store.InsertOrderOp(first)}))

		second := buildOrder(t, tenantID, product, 1)
		second.OrderNumber = first.OrderNumber
		err := store.Commit(ctx, []trade.TxOp{
			store.InsertOrderOp(second),
			store.DecrementStockOp(product.ID, tenantID, 1),
		})
		require.Error(t, err)
		assert.Equal(t, int64(10), currentStock(t, db, product.ID), "stock untouched when insert fails")
	})

	t.Run("order numbers are unique per tenant, not globally", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewGormOrderTxStore(db)
		tenantA := uuid.New()
		tenantB := uuid.New()
		productA := seedProduct(t, db, tenantA, 10, true)
		productB := seedProduct(t, db, tenantB, 10, true)

		first := buildOrder(t, tenantA, productA, 1)
		require.NoError(t, store.Commit(ctx, []trade.TxOp{store.InsertOrderOp(first)}))

		second := buildOrder(t, tenantB, productB, 1)
		second.OrderNumber = first.OrderNumber
		require.NoError(t, store.Commit(ctx, []trade.TxOp{store.InsertOrderOp(second)}))
	})
}
