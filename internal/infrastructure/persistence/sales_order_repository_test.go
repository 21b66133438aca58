package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSalesOrderRepositoryFind(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormSalesOrderRepository(db)

	tenantID := uuid.New()
	product := seedProduct(t, db, tenantID, 100, true)
	order := buildOrder(t, tenantID, product, 2)
	require.NoError(t, db.Create(order).Error)

	t.Run("loads order with items and payments", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.OrderNumber, found.OrderNumber)
		require.Len(t, found.Items, 1)
		assert.Equal(t, product.ID, found.Items[0].ProductID)
		assert.True(t, found.Items[0].LineTotal.Equal(order.Items[0].LineTotal))
		require.Len(t, found.Payments, 1)
	})

	t.Run("other tenant cannot see the order", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, uuid.New(), order.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("find by order number", func(t *testing.T) {
		found, err := repo.FindByOrderNumber(ctx, tenantID, order.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, order.ID, found.ID)
	})

	t.Run("unknown order number", func(t *testing.T) {
		_, err := repo.FindByOrderNumber(ctx, tenantID, "SO-00000000-0000")
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestGormSalesOrderRepositoryList(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormSalesOrderRepository(db)

	tenantID := uuid.New()
	otherTenant := uuid.New()
	product := seedProduct(t, db, tenantID, 100, true)

	customerID := uuid.New()
	withCustomer := buildOrder(t, tenantID, product, 1)
	withCustomer.CustomerID = &customerID
	require.NoError(t, db.Create(withCustomer).Error)
	require.NoError(t, db.Create(buildOrder(t, tenantID, product, 2)).Error)

	foreignProduct := seedProduct(t, db, otherTenant, 100, true)
	require.NoError(t, db.Create(buildOrder(t, otherTenant, foreignProduct, 1)).Error)

	t.Run("lists only the tenant's orders", func(t *testing.T) {
		orders, err := repo.FindAllForTenant(ctx, tenantID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, orders, 2)
		for _, o := range orders {
			assert.Equal(t, tenantID, o.TenantID)
			assert.Len(t, o.Items, 1)
		}
	})

	t.Run("filters by customer", func(t *testing.T) {
		orders, err := repo.FindByCustomer(ctx, tenantID, customerID, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, withCustomer.ID, orders[0].ID)
	})

	t.Run("counts match the list scope", func(t *testing.T) {
		count, err := repo.CountForTenant(ctx, tenantID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("status filter narrows the list", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = string(trade.OrderStatusCanceled)
		orders, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Empty(t, orders)
	})
}

func TestGormSalesOrderRepositorySave(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormSalesOrderRepository(db)

	tenantID := uuid.New()
	product := seedProduct(t, db, tenantID, 100, true)
	order := buildOrder(t, tenantID, product, 2)
	require.NoError(t, db.Create(order).Error)

	t.Run("status update does not duplicate lines", func(t *testing.T) {
		require.NoError(t, order.Cancel())
		require.NoError(t, repo.Save(ctx, order))

		found, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.OrderStatusCanceled, found.Status)
		assert.Len(t, found.Items, 1)
		assert.Len(t, found.Payments, 1)
	})
}

func TestGormSalesOrderRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormSalesOrderRepository(db)

	tenantID := uuid.New()
	product := seedProduct(t, db, tenantID, 100, true)
	order := buildOrder(t, tenantID, product, 2)
	require.NoError(t, db.Create(order).Error)

	t.Run("other tenant cannot delete", func(t *testing.T) {
		err := repo.DeleteForTenant(ctx, uuid.New(), order.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("delete removes order and its lines", func(t *testing.T) {
		require.NoError(t, repo.DeleteForTenant(ctx, tenantID, order.ID))

		_, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))

		var itemCount, paymentCount int64
		require.NoError(t, db.Model(&trade.SalesOrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error)
		require.NoError(t, db.Model(&trade.OrderPayment{}).Where("order_id = ?", order.ID).Count(&paymentCount).Error)
		assert.Zero(t, itemCount)
		assert.Zero(t, paymentCount)
	})

	t.Run("second delete reports not found", func(t *testing.T) {
		err := repo.DeleteForTenant(ctx, tenantID, order.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestGormSalesOrderRepositoryReporting(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormSalesOrderRepository(db)

	tenantID := uuid.New()
	otherTenant := uuid.New()
	product := seedProduct(t, db, tenantID, 100, true)

	cashOrder := buildOrder(t, tenantID, product, 2)
	require.NoError(t, db.Create(cashOrder).Error)

	cardOrder := buildOrder(t, tenantID, product, 3)
	cardOrder.Payments[0].Method = trade.PaymentMethodCard
	require.NoError(t, db.Create(cardOrder).Error)

	foreignProduct := seedProduct(t, db, otherTenant, 100, true)
	require.NoError(t, db.Create(buildOrder(t, otherTenant, foreignProduct, 5)).Error)

	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)

	t.Run("totals cover only the tenant's orders", func(t *testing.T) {
		totals, err := repo.SalesTotalsInRange(ctx, tenantID, from, to)
		require.NoError(t, err)
		assert.True(t, totals.Total.Equal(decimal.RequireFromString("50")), "got %s", totals.Total)
		assert.Equal(t, int64(2), totals.Orders)
	})

	t.Run("window excludes orders outside the range", func(t *testing.T) {
		totals, err := repo.SalesTotalsInRange(ctx, tenantID, from.Add(-48*time.Hour), from)
		require.NoError(t, err)
		assert.True(t, totals.Total.IsZero())
		assert.Zero(t, totals.Orders)
	})

	t.Run("payments group by method within the tenant", func(t *testing.T) {
		perMethod, err := repo.PaymentTotalsInRange(ctx, tenantID, from, to)
		require.NoError(t, err)
		require.Len(t, perMethod, 2)
		assert.True(t, perMethod[trade.PaymentMethodCash].Total.Equal(decimal.RequireFromString("20")))
		assert.Equal(t, int64(1), perMethod[trade.PaymentMethodCash].Count)
		assert.True(t, perMethod[trade.PaymentMethodCard].Total.Equal(decimal.RequireFromString("30")))
		assert.Equal(t, int64(1), perMethod[trade.PaymentMethodCard].Count)
	})
}
