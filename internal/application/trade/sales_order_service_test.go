package trade

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/commerce/backend/internal/domain/catalog"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeOrderStore is an in-memory OrderTxStore and SalesOrderRepository
// with all-or-nothing commit semantics, mirroring what the gorm
// implementation provides.
type fakeOrderStore struct {
	mu         sync.Mutex
	products   map[uuid.UUID]*catalog.Product
	orders     map[uuid.UUID]*trade.SalesOrder
	failCommit error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		products: make(map[uuid.UUID]*catalog.Product),
		orders:   make(map[uuid.UUID]*trade.SalesOrder),
	}
}

func (f *fakeOrderStore) addProduct(p *catalog.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = p
}

func (f *fakeOrderStore) stockOf(id uuid.UUID) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].Stock
}

func (f *fakeOrderStore) orderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

type fakeTxOp struct {
	kind  string
	apply func() error
}

func (op fakeTxOp) OpKind() string { return op.kind }

func (f *fakeOrderStore) FetchProducts(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make(map[uuid.UUID]*catalog.Product, len(ids))
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			copied := *p
			result[id] = &copied
		}
	}
	return result, nil
}

func (f *fakeOrderStore) InsertOrderOp(order *trade.SalesOrder) trade.TxOp {
	return fakeTxOp{kind: "insert_order", apply: func() error {
		f.orders[order.ID] = order
		return nil
	}}
}

func (f *fakeOrderStore) DecrementStockOp(productID, tenantID uuid.UUID, quantity int64) trade.TxOp {
	return fakeTxOp{kind: "decrement_stock", apply: func() error {
		p, ok := f.products[productID]
		if !ok || p.TenantID != tenantID {
			return shared.ErrNotFound
		}
		if p.Stock < quantity {
			return shared.ErrInsufficientStock
		}
		p.Stock -= quantity
		return nil
	}}
}

func (f *fakeOrderStore) Commit(_ context.Context, ops []trade.TxOp) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCommit != nil {
		return f.failCommit
	}

	// Snapshot so a failing op rolls everything back
	stockBefore := make(map[uuid.UUID]int64, len(f.products))
	for id, p := range f.products {
		stockBefore[id] = p.Stock
	}
	ordersBefore := make(map[uuid.UUID]*trade.SalesOrder, len(f.orders))
	for id, o := range f.orders {
		ordersBefore[id] = o
	}

	for _, op := range ops {
		if err := op.(fakeTxOp).apply(); err != nil {
			for id, stock := range stockBefore {
				f.products[id].Stock = stock
			}
			f.orders = ordersBefore
			return err
		}
	}
	return nil
}

func (f *fakeOrderStore) FindByID(_ context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeOrderStore) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*trade.SalesOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[id]; ok && o.TenantID == tenantID {
		return o, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeOrderStore) FindByOrderNumber(_ context.Context, tenantID uuid.UUID, orderNumber string) (*trade.SalesOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.TenantID == tenantID && o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeOrderStore) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]trade.SalesOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []trade.SalesOrder
	for _, o := range f.orders {
		if o.TenantID == tenantID {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (f *fakeOrderStore) FindByCustomer(_ context.Context, tenantID, customerID uuid.UUID, _ shared.Filter) ([]trade.SalesOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []trade.SalesOrder
	for _, o := range f.orders {
		if o.TenantID == tenantID && o.CustomerID != nil && *o.CustomerID == customerID {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (f *fakeOrderStore) Save(_ context.Context, order *trade.SalesOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderStore) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[id]; ok && o.TenantID == tenantID {
		delete(f.orders, id)
		return nil
	}
	return shared.ErrNotFound
}

func (f *fakeOrderStore) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, o := range f.orders {
		if o.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (f *fakeOrderStore) SalesTotalsInRange(_ context.Context, tenantID uuid.UUID, from, to time.Time) (trade.SalesTotals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	totals := trade.SalesTotals{Total: decimal.Zero}
	for _, o := range f.orders {
		if o.TenantID != tenantID || o.CreatedAt.Before(from) || o.CreatedAt.After(to) {
			continue
		}
		totals.Total = totals.Total.Add(o.TotalAmount)
		totals.Orders++
	}
	return totals, nil
}

func (f *fakeOrderStore) PaymentTotalsInRange(_ context.Context, tenantID uuid.UUID, from, to time.Time) (map[trade.PaymentMethodType]trade.PaymentTotals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make(map[trade.PaymentMethodType]trade.PaymentTotals)
	for _, o := range f.orders {
		if o.TenantID != tenantID || o.CreatedAt.Before(from) || o.CreatedAt.After(to) {
			continue
		}
		for _, p := range o.Payments {
			entry := result[p.Method]
			entry.Total = entry.Total.Add(p.Amount)
			entry.Count++
			result[p.Method] = entry
		}
	}
	return result, nil
}

// fakeIdempotencyStore is a map-backed IdempotencyStore
type fakeIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]uuid.UUID
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{entries: make(map[string]uuid.UUID)}
}

func (f *fakeIdempotencyStore) Remember(_ context.Context, key string, entityID uuid.UUID, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[key]; ok {
		return false, nil
	}
	f.entries[key] = entityID
	return true, nil
}

func (f *fakeIdempotencyStore) Lookup(_ context.Context, key string) (uuid.UUID, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.entries[key]
	return id, ok, nil
}

func (f *fakeIdempotencyStore) Close() error { return nil }

func trackedProduct(t *testing.T, tenantID uuid.UUID, price, offerPrice string, stock int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(tenantID, uuid.New(), "Tracked Product", catalog.UnitPiece)
	require.NoError(t, err)

	var list, offer *decimal.Decimal
	if price != "" {
		d := decimal.RequireFromString(price)
		list = &d
	}
	if offerPrice != "" {
		d := decimal.RequireFromString(offerPrice)
		offer = &d
	}
	require.NoError(t, p.SetPricing(list, offer))
	require.NoError(t, p.EnableStockTracking(stock))
	require.NoError(t, p.Publish())
	return p
}

func cashPayment(amount string) OrderPaymentInput {
	return OrderPaymentInput{Amount: decimal.RequireFromString(amount), Method: "cash"}
}

func TestSalesOrderServiceCreate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()

	newService := func(store *fakeOrderStore) *SalesOrderService {
		return NewSalesOrderService(store, store, zap.NewNop())
	}

	t.Run("creates order with offer pricing and decrements stock", func(t *testing.T) {
		store := newFakeOrderStore()
		p1 := trackedProduct(t, tenantID, "20.00", "15.00", 10)
		store.addProduct(p1)

		resp, err := newService(store).Create(ctx, tenantID, userID, CreateSalesOrderRequest{
			Items:    []CreateSalesOrderItemInput{{ProductID: p1.ID, Quantity: 2}},
			Payments: []OrderPaymentInput{cashPayment("30.00")},
		})
		require.NoError(t, err)
		require.NotNil(t, resp)

		assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("30.00")), "got %s", resp.TotalAmount)
		assert.Equal(t, "paid", resp.Status)
		assert.Equal(t, int64(8), store.stockOf(p1.ID))
		require.Len(t, resp.Items, 1)
		assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.RequireFromString("15.00")))
		assert.NotEmpty(t, resp.OrderNumber)

		// Read-back returns the same order
		fetched, err := newService(store).GetByID(ctx, tenantID, resp.ID)
		require.NoError(t, err)
		assert.Equal(t, resp.OrderNumber, fetched.OrderNumber)
		assert.True(t, fetched.TotalAmount.Equal(resp.TotalAmount))
		assert.Len(t, fetched.Items, len(resp.Items))
		assert.Len(t, fetched.Payments, len(resp.Payments))
	})

	t.Run("insufficient stock fails with no side effects", func(t *testing.T) {
		store := newFakeOrderStore()
		p1 := trackedProduct(t, tenantID, "20.00", "15.00", 1)
		store.addProduct(p1)

		_, err := newService(store).Create(ctx, tenantID, userID, CreateSalesOrderRequest{
			Items:    []CreateSalesOrderItemInput{{ProductID: p1.ID, Quantity: 2}},
			Payments: []OrderPaymentInput{cashPayment("30.00")},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

		var shortage *trade.StockShortageError
		require.True(t, errors.As(err, &shortage))
		assert.Equal(t, int64(1), shortage.Available)
		assert.Equal(t, int64(2), shortage.Requested)

		assert.Equal(t, int64(1), store.stockOf(p1.ID))
		assert.Zero(t, store.orderCount())
	})

	t.Run("unknown product fails with no side effects", func(t *testing.T) {
		store := newFakeOrderStore()
		p1 := trackedProduct(t, tenantID, "20.00", "", 10)
		store.addProduct(p1)

		_, err := newService(store).Create(ctx, tenantID, userID, CreateSalesOrderRequest{
			Items: []CreateSalesOrderItemInput{
				{ProductID: p1.ID, Quantity: 1},
				{ProductID: uuid.New(), Quantity: 1},
			},
			Payments: []OrderPaymentInput{cashPayment("20.00")},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))

		assert.Equal(t, int64(10), store.stockOf(p1.ID))
		assert.Zero(t, store.orderCount())
	})

	t.Run("cross-tenant product is rejected distinctly from not found", func(t *testing.T) {
		store := newFakeOrderStore()
		foreign := trackedProduct(t, uuid.New(), "20.00", "", 10)
		store.addProduct(foreign)

		_, err := newService(store).Create(ctx, tenantID, userID, CreateSalesOrderRequest{
			Items:    []CreateSalesOrderItemInput{{ProductID: foreign.ID, Quantity: 1}},
			Payments: []OrderPaymentInput{cashPayment("20.00")},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrCrossTenantAccess))
		assert.False(t, errors.Is(err, shared.ErrNotFound))

		assert.Equal(t, int64(10), store.stockOf(foreign.ID))
		assert.Zero(t, store.orderCount())
	})

	t.Run("soft-deleted product is treated as not found", func(t *testing.T) {
		store := newFakeOrderStore()
		p := trackedProduct(t, tenantID, "20.00", "", 10)
		require.NoError(t, p.MarkDeleted())
		store.addProduct(p)

		_, err := newService(store).Create(ctx, tenantID, userID, CreateSalesOrderRequest{
			Items:    []CreateSalesOrderItemInput{{ProductID: p.ID, Quantity: 1}},
			Payments: []OrderPaymentInput{cashPayment("20.00")},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("untracked product sells regardless of stock", func(t *testing.T) {
		store := newFakeOrderStore()
		p, err := catalog.NewProduct(tenantID, userID, "Untracked", catalog.UnitPiece)
		require.NoError(t, err)
		price := decimal.RequireFromString("9.99")
		require.NoError(t, p.SetPricing(&price, nil))
		store.addProduct(p)

		resp, err := newService(store).Create(ctx, tenantID, userID, CreateSalesOrderRequest{
			Items:    []CreateSalesOrderItemInput{{ProductID: p.ID, Quantity: 100}},
			Payments: []OrderPaymentInput{cashPayment("999.00")},
		})
		require.NoError(t, err)
		assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("999.00")))
		assert.Zero(t, store.stockOf(p.ID))
	})

	t.Run("stock drains to zero then refuses further sales", func(t *testing.T) {
		store := newFakeOrderStore()
		p := trackedProduct(t, tenantID, "10.00", "", 5)
		store.addProduct(p)
		svc := newService(store)

		_, err := svc.Create(ctx, tenantID, userID, CreateSalesOrderRequest{
			Items:    []CreateSalesOrderItemInput{{ProductID: p.ID, Quantity: 5}},
			Payments: []OrderPaymentInput{cashPayment("50.00")},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), store.stockOf(p.ID))

		_, err = svc.Create(ctx, tenantID, userID, CreateSalesOrderRequest{
			Items:    []CreateSalesOrderItemInput{{ProductID: p.ID, Quantity: 1}},
			Payments: []OrderPaymentInput{cashPayment("10.00")},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
		assert.Equal(t, int64(0), store.stockOf(p.ID))
	})

	t.Run("duplicate lines are aggregated before validation", func(t *testing.T) {
		store := newFakeOrderStore()
		p := trackedProduct(t, tenantID, "10.00", "", 5)
		store.addProduct(p)

		_, err := newService(store).Create(ctx, tenantID, userID, CreateSalesOrderRequest{
			Items: []CreateSalesOrderItemInput{
				{ProductID: p.ID, Quantity: 3},
				{ProductID: p.ID, Quantity: 3},
			},
			Payments: []OrderPaymentInput{cashPayment("60.00")},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
		assert.Equal(t, int64(5), store.stockOf(p.ID))
	})

	t.Run("commit failure is classified and leaves no partial state", func(t *testing.T) {
		store := newFakeOrderStore()
		p := trackedProduct(t, tenantID, "10.00", "", 5)
		store.addProduct(p)
		store.failCommit = errors.New("connection reset")

		_, err := newService(store).Create(ctx, tenantID, userID, CreateSalesOrderRequest{
			Items:    []CreateSalesOrderItemInput{{ProductID: p.ID, Quantity: 1}},
			Payments: []OrderPaymentInput{cashPayment("10.00")},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrOrderCreation))

		assert.Equal(t, int64(5), store.stockOf(p.ID))
		assert.Zero(t, store.orderCount())
	})

	t.Run("request key replays the original order without double decrement", func(t *testing.T) {
		store := newFakeOrderStore()
		p := trackedProduct(t, tenantID, "10.00", "", 10)
		store.addProduct(p)

		svc := newService(store)
		svc.SetIdempotencyStore(newFakeIdempotencyStore(), shared.DefaultIdempotencyConfig())

		req := CreateSalesOrderRequest{
			RequestID: "req-abc-123",
			Items:     []CreateSalesOrderItemInput{{ProductID: p.ID, Quantity: 2}},
			Payments:  []OrderPaymentInput{cashPayment("20.00")},
		}

		first, err := svc.Create(ctx, tenantID, userID, req)
		require.NoError(t, err)
		assert.Equal(t, int64(8), store.stockOf(p.ID))

		second, err := svc.Create(ctx, tenantID, userID, req)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.OrderNumber, second.OrderNumber)
		assert.Equal(t, int64(8), store.stockOf(p.ID), "stock must not be decremented twice")
		assert.Equal(t, 1, store.orderCount())
	})

	t.Run("request keys are scoped per tenant", func(t *testing.T) {
		store := newFakeOrderStore()
		otherTenant := uuid.New()
		p1 := trackedProduct(t, tenantID, "10.00", "", 10)
		p2 := trackedProduct(t, otherTenant, "10.00", "", 10)
		store.addProduct(p1)
		store.addProduct(p2)

		svc := newService(store)
		svc.SetIdempotencyStore(newFakeIdempotencyStore(), shared.DefaultIdempotencyConfig())

		first, err := svc.Create(ctx, tenantID, userID, CreateSalesOrderRequest{
			RequestID: "shared-key",
			Items:     []CreateSalesOrderItemInput{{ProductID: p1.ID, Quantity: 1}},
			Payments:  []OrderPaymentInput{cashPayment("10.00")},
		})
		require.NoError(t, err)

		second, err := svc.Create(ctx, otherTenant, userID, CreateSalesOrderRequest{
			RequestID: "shared-key",
			Items:     []CreateSalesOrderItemInput{{ProductID: p2.ID, Quantity: 1}},
			Payments:  []OrderPaymentInput{cashPayment("10.00")},
		})
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("rejects empty item list", func(t *testing.T) {
		store := newFakeOrderStore()
		_, err := newService(store).Create(ctx, tenantID, userID, CreateSalesOrderRequest{
			Payments: []OrderPaymentInput{cashPayment("10.00")},
		})
		require.Error(t, err)
	})
}

func TestSalesOrderServiceUpdateStatus(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()

	createOrder := func(t *testing.T, store *fakeOrderStore, svc *SalesOrderService) *SalesOrderResponse {
		p := trackedProduct(t, tenantID, "10.00", "", 10)
		store.addProduct(p)
		resp, err := svc.Create(ctx, tenantID, userID, CreateSalesOrderRequest{
			Items:    []CreateSalesOrderItemInput{{ProductID: p.ID, Quantity: 1}},
			Payments: []OrderPaymentInput{cashPayment("10.00")},
		})
		require.NoError(t, err)
		return resp
	}

	t.Run("paid order can be canceled", func(t *testing.T) {
		store := newFakeOrderStore()
		svc := NewSalesOrderService(store, store, zap.NewNop())
		order := createOrder(t, store, svc)

		updated, err := svc.UpdateStatus(ctx, tenantID, order.ID, UpdateOrderStatusRequest{Status: "canceled"})
		require.NoError(t, err)
		assert.Equal(t, "canceled", updated.Status)
	})

	t.Run("canceled order cannot change status", func(t *testing.T) {
		store := newFakeOrderStore()
		svc := NewSalesOrderService(store, store, zap.NewNop())
		order := createOrder(t, store, svc)

		_, err := svc.UpdateStatus(ctx, tenantID, order.ID, UpdateOrderStatusRequest{Status: "canceled"})
		require.NoError(t, err)

		_, err = svc.UpdateStatus(ctx, tenantID, order.ID, UpdateOrderStatusRequest{Status: "paid"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
	})

	t.Run("status update is tenant scoped", func(t *testing.T) {
		store := newFakeOrderStore()
		svc := NewSalesOrderService(store, store, zap.NewNop())
		order := createOrder(t, store, svc)

		_, err := svc.UpdateStatus(ctx, uuid.New(), order.ID, UpdateOrderStatusRequest{Status: "canceled"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestSalesOrderServiceDelete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("delete removes the order without restoring stock", func(t *testing.T) {
		store := newFakeOrderStore()
		svc := NewSalesOrderService(store, store, zap.NewNop())
		p := trackedProduct(t, tenantID, "10.00", "", 10)
		store.addProduct(p)

		resp, err := svc.Create(ctx, tenantID, userID, CreateSalesOrderRequest{
			Items:    []CreateSalesOrderItemInput{{ProductID: p.ID, Quantity: 2}},
			Payments: []OrderPaymentInput{cashPayment("20.00")},
		})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, tenantID, resp.ID))
		assert.Zero(t, store.orderCount())
		assert.Equal(t, int64(8), store.stockOf(p.ID))

		require.Error(t, svc.Delete(ctx, tenantID, resp.ID))
	})
}
