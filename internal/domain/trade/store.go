package trade

import (
	"context"
	"time"

	"github.com/commerce/backend/internal/domain/catalog"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TxOp is one write within an atomic order commit. Ops are opaque:
// they are built by an OrderTxStore and only the store that built
// them knows how to apply them.
type TxOp interface {
	// OpKind labels the op for logging
	OpKind() string
}

// OrderTxStore is the narrow capability the order workflow needs from
// the persistence layer: read products, build writes, commit them
// all-or-nothing. The workflow never touches the database directly,
// which keeps it testable against an in-memory implementation.
type OrderTxStore interface {
	// FetchProducts loads products by id without tenant filtering so
	// the caller can distinguish a missing product from one owned by
	// another tenant. Missing ids are absent from the result.
	FetchProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error)

	// InsertOrderOp builds the op that persists the order with its
	// items and payments.
	InsertOrderOp(order *SalesOrder) TxOp

	// DecrementStockOp builds a conditional stock decrement for one
	// product. The op must refuse to drive stock negative: if the
	// product's stock is below quantity at commit time the whole
	// commit fails.
	DecrementStockOp(productID, tenantID uuid.UUID, quantity int64) TxOp

	// Commit applies all ops atomically. On error nothing is visible:
	// no order row and no stock changes.
	Commit(ctx context.Context, ops []TxOp) error
}

// SalesOrderRepository defines the interface for sales order reads and
// status updates outside the creation workflow.
type SalesOrderRepository interface {
	// FindByID finds a sales order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)

	// FindByIDForTenant finds a sales order with items and payments
	// for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SalesOrder, error)

	// FindByOrderNumber finds a sales order by order number for a tenant
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*SalesOrder, error)

	// FindAllForTenant finds all sales orders for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SalesOrder, error)

	// FindByCustomer finds sales orders for a customer
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]SalesOrder, error)

	// Save updates an existing sales order (status transitions)
	Save(ctx context.Context, order *SalesOrder) error

	// DeleteForTenant removes a sales order and its lines for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts sales orders for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// SalesTotalsInRange sums order totals and counts orders created
	// within [from, to] for a tenant
	SalesTotalsInRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (SalesTotals, error)

	// PaymentTotalsInRange sums captured payments per method for
	// orders created within [from, to] for a tenant
	PaymentTotalsInRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (map[PaymentMethodType]PaymentTotals, error)
}

// SalesTotals aggregates order totals over a reporting window
type SalesTotals struct {
	Total  decimal.Decimal
	Orders int64
}

// PaymentTotals aggregates captured payments for one payment method
type PaymentTotals struct {
	Total decimal.Decimal
	Count int64
}
