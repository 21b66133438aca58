package trade

import (
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a sales order
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusCanceled OrderStatus = "canceled"
)

// CanTransitionTo checks whether a status transition is allowed
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusPaid || target == OrderStatusCanceled
	case OrderStatusPaid:
		return target == OrderStatusCanceled
	case OrderStatusCanceled:
		return false
	}
	return false
}

// IsValid returns true for a known status
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusCanceled:
		return true
	}
	return false
}

// PaymentMethodType represents how a payment was collected
type PaymentMethodType string

const (
	PaymentMethodCash     PaymentMethodType = "cash"
	PaymentMethodTransfer PaymentMethodType = "transfer"
	PaymentMethodCard     PaymentMethodType = "card"
	PaymentMethodLink     PaymentMethodType = "link"
)

// IsValid returns true for a known payment method
func (m PaymentMethodType) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCard, PaymentMethodLink:
		return true
	}
	return false
}

// AllPaymentMethods lists every known payment method. Reporting uses
// it so methods without sales still appear with zero totals.
func AllPaymentMethods() []PaymentMethodType {
	return []PaymentMethodType{
		PaymentMethodCash,
		PaymentMethodTransfer,
		PaymentMethodCard,
		PaymentMethodLink,
	}
}

// SalesOrderItem is one product line within an order. Prices are
// snapshots taken at order time; later catalog changes do not touch
// persisted orders.
type SalesOrderItem struct {
	shared.BaseEntity
	OrderID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductName    string           `gorm:"type:varchar(200);not null"`
	Quantity       int64            `gorm:"not null"`
	UnitPrice      decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	ListPrice      *decimal.Decimal `gorm:"type:decimal(18,2)"`
	OfferPrice     *decimal.Decimal `gorm:"type:decimal(18,2)"`
	IsSubscription bool             `gorm:"not null;default:false"`
	LineTotal      decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (SalesOrderItem) TableName() string {
	return "sales_order_items"
}

// OrderPayment is one captured payment against an order
type OrderPayment struct {
	shared.BaseEntity
	OrderID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Amount  decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Method  PaymentMethodType `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (OrderPayment) TableName() string {
	return "order_payments"
}

// SalesOrder represents a customer purchase.
// It is the aggregate root for order-related operations.
type SalesOrder struct {
	shared.TenantAggregateRoot
	OrderNumber string           `gorm:"type:varchar(32);not null;index"`
	CustomerID  *uuid.UUID       `gorm:"type:uuid;index"`
	Status      OrderStatus      `gorm:"type:varchar(20);not null;default:'pending';index"`
	TotalAmount decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Items       []SalesOrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments    []OrderPayment   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (SalesOrder) TableName() string {
	return "sales_orders"
}

// NewSalesOrder builds an order with its items and payments. The total
// is always recomputed from the items, never taken from the caller.
func NewSalesOrder(
	tenantID, createdBy uuid.UUID,
	orderNumber string,
	customerID *uuid.UUID,
	initialStatus OrderStatus,
	items []SalesOrderItem,
	payments []OrderPayment,
) (*SalesOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}
	if !initialStatus.IsValid() || initialStatus == OrderStatusCanceled {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid initial order status")
	}
	for i := range items {
		if items[i].Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
		}
	}
	for i := range payments {
		if !payments[i].Method.IsValid() {
			return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
		}
		if payments[i].Amount.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment amount cannot be negative")
		}
	}

	order := &SalesOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, createdBy),
		OrderNumber:         orderNumber,
		CustomerID:          customerID,
		Status:              initialStatus,
		Items:               items,
		Payments:            payments,
	}

	for i := range order.Items {
		order.Items[i].BaseEntity = shared.NewBaseEntity()
		order.Items[i].OrderID = order.ID
		order.Items[i].LineTotal = order.Items[i].UnitPrice.Mul(decimal.NewFromInt(order.Items[i].Quantity))
	}
	for i := range order.Payments {
		order.Payments[i].BaseEntity = shared.NewBaseEntity()
		order.Payments[i].OrderID = order.ID
	}

	order.recalculateTotal()

	return order, nil
}

// recalculateTotal derives the order total from its line totals
func (o *SalesOrder) recalculateTotal() {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].LineTotal)
	}
	o.TotalAmount = total
}

// PaymentTotal returns the sum of captured payments
func (o *SalesOrder) PaymentTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Payments {
		total = total.Add(o.Payments[i].Amount)
	}
	return total
}

// TransitionTo moves the order to a new status, enforcing the state
// machine: pending->paid, pending->canceled, paid->canceled.
func (o *SalesOrder) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unknown order status")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot transition order from "+string(o.Status)+" to "+string(target))
	}

	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// MarkPaid transitions a pending order to paid
func (o *SalesOrder) MarkPaid() error {
	return o.TransitionTo(OrderStatusPaid)
}

// Cancel voids the order
func (o *SalesOrder) Cancel() error {
	return o.TransitionTo(OrderStatusCanceled)
}

// IsCanceled returns true if the order has been voided
func (o *SalesOrder) IsCanceled() bool {
	return o.Status == OrderStatusCanceled
}
