package trade

import (
	"time"

	"github.com/commerce/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSalesOrderRequest represents a request to create a sales order.
// RequestID is an optional client-supplied idempotency key: retrying
// with the same key returns the originally created order.
type CreateSalesOrderRequest struct {
	RequestID  string                      `json:"request_id" binding:"omitempty,max=64"`
	CustomerID *uuid.UUID                  `json:"customer_id"`
	Items      []CreateSalesOrderItemInput `json:"items" binding:"required,min=1,dive"`
	Payments   []OrderPaymentInput         `json:"payments" binding:"required,min=1,dive"`
}

// CreateSalesOrderItemInput is one requested line. Client-side prices
// are deliberately absent: totals are always recomputed from the
// catalog.
type CreateSalesOrderItemInput struct {
	ProductID      uuid.UUID `json:"product_id" binding:"required"`
	Quantity       int64     `json:"quantity" binding:"required,gt=0"`
	IsSubscription bool      `json:"is_subscription"`
}

// OrderPaymentInput is one captured payment in the create request
type OrderPaymentInput struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"method" binding:"required,oneof=cash transfer card link"`
}

// UpdateOrderStatusRequest represents a status transition request
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending paid canceled"`
}

// SalesOrderListFilter represents filter options for the order list
type SalesOrderListFilter struct {
	Search     string             `form:"search"`
	CustomerID *uuid.UUID         `form:"customer_id"`
	Status     *trade.OrderStatus `form:"status"`
	StartDate  *time.Time         `form:"start_date"`
	EndDate    *time.Time         `form:"end_date"`
	Page       int                `form:"page" binding:"omitempty,min=1"`
	PageSize   int                `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string             `form:"order_by"`
	OrderDir   string             `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SalesOrderResponse represents a sales order in API responses
type SalesOrderResponse struct {
	ID          uuid.UUID                `json:"id"`
	OrderNumber string                   `json:"order_number"`
	CustomerID  *uuid.UUID               `json:"customer_id,omitempty"`
	Status      string                   `json:"status"`
	TotalAmount decimal.Decimal          `json:"total_amount"`
	Items       []SalesOrderItemResponse `json:"items"`
	Payments    []OrderPaymentResponse   `json:"payments"`
	CreatedBy   *uuid.UUID               `json:"created_by,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// SalesOrderItemResponse represents an order line in API responses
type SalesOrderItemResponse struct {
	ID             uuid.UUID        `json:"id"`
	ProductID      uuid.UUID        `json:"product_id"`
	ProductName    string           `json:"product_name"`
	Quantity       int64            `json:"quantity"`
	UnitPrice      decimal.Decimal  `json:"unit_price"`
	ListPrice      *decimal.Decimal `json:"list_price,omitempty"`
	OfferPrice     *decimal.Decimal `json:"offer_price,omitempty"`
	IsSubscription bool             `json:"is_subscription"`
	LineTotal      decimal.Decimal  `json:"line_total"`
}

// OrderPaymentResponse represents a captured payment in API responses
type OrderPaymentResponse struct {
	ID     uuid.UUID       `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
}

// SalesReportRequest bounds a reporting window by calendar date,
// inclusive on both ends
type SalesReportRequest struct {
	StartDate string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"required,datetime=2006-01-02"`
}

// SalesReportResponse compares sales in the requested period against
// the immediately preceding period of the same length
type SalesReportResponse struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	CurrentValue decimal.Decimal `json:"current_value"`
	LastValue    decimal.Decimal `json:"last_value"`
	OrderCount   int64           `json:"order_count"`
	IsCurrency   bool            `json:"is_currency"`
	Frequency    string          `json:"frequency"`
}

// PaymentMethodSummary is one payment method's share of a day's sales
type PaymentMethodSummary struct {
	Method           string          `json:"method"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TransactionCount int64           `json:"transaction_count"`
	Percentage       decimal.Decimal `json:"percentage"`
}

// DailyPaymentSummaryResponse breaks one day's sales down by payment
// method. Every known method appears, with zero totals when unused.
type DailyPaymentSummaryResponse struct {
	Date            string                 `json:"date"`
	TotalDailySales decimal.Decimal        `json:"total_daily_sales"`
	TotalOrders     int64                  `json:"total_orders"`
	PaymentMethods  []PaymentMethodSummary `json:"payment_methods"`
}

// SalesOrderListItemResponse represents an order in list responses
type SalesOrderListItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"order_number"`
	CustomerID  *uuid.UUID      `json:"customer_id,omitempty"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToSalesOrderResponse maps a sales order aggregate to its response
func ToSalesOrderResponse(order *trade.SalesOrder) SalesOrderResponse {
	items := make([]SalesOrderItemResponse, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items = append(items, SalesOrderItemResponse{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			ListPrice:      item.ListPrice,
			OfferPrice:     item.OfferPrice,
			IsSubscription: item.IsSubscription,
			LineTotal:      item.LineTotal,
		})
	}

	payments := make([]OrderPaymentResponse, 0, len(order.Payments))
	for i := range order.Payments {
		payment := &order.Payments[i]
		payments = append(payments, OrderPaymentResponse{
			ID:     payment.ID,
			Amount: payment.Amount,
			Method: string(payment.Method),
		})
	}

	return SalesOrderResponse{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		Items:       items,
		Payments:    payments,
		CreatedBy:   order.CreatedBy,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

// ToSalesOrderListItemResponses maps orders to list responses
func ToSalesOrderListItemResponses(orders []trade.SalesOrder) []SalesOrderListItemResponse {
	responses := make([]SalesOrderListItemResponse, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		responses = append(responses, SalesOrderListItemResponse{
			ID:          order.ID,
			OrderNumber: order.OrderNumber,
			CustomerID:  order.CustomerID,
			Status:      string(order.Status),
			TotalAmount: order.TotalAmount,
			ItemCount:   len(order.Items),
			CreatedAt:   order.CreatedAt,
		})
	}
	return responses
}
