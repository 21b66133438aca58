package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSalesOrderRepository implements SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID finds a sales order by ID
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	var order trade.SalesOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForTenant finds a sales order with items and payments for a
// specific tenant
func (r *GormSalesOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.SalesOrder, error) {
	var order trade.SalesOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds a sales order by order number for a tenant
func (r *GormSalesOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*trade.SalesOrder, error) {
	var order trade.SalesOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("tenant_id = ? AND order_number = ?", tenantID, orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAllForTenant finds all sales orders for a tenant with filtering
func (r *GormSalesOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.SalesOrder, error) {
	query := r.buildListQuery(ctx, tenantID, filter).Preload("Items")
	query = applyOrdering(query, filter, SalesOrderSortFields)
	query = applyPagination(query, filter)

	var orders []trade.SalesOrder
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByCustomer finds sales orders for a customer
func (r *GormSalesOrderRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]trade.SalesOrder, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID)
	query = applyOrdering(query, filter, SalesOrderSortFields)
	query = applyPagination(query, filter)

	var orders []trade.SalesOrder
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save updates an existing sales order (status transitions)
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *trade.SalesOrder) error {
	// Items and payments are immutable after creation; saving them
	// again would duplicate line rows.
	return r.db.WithContext(ctx).Omit("Items", "Payments").Save(order).Error
}

// DeleteForTenant removes a sales order and its lines for a tenant
func (r *GormSalesOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&trade.SalesOrder{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		// SQLite does not always enforce cascades, so remove lines
		// explicitly.
		if err := tx.Where("order_id = ?", id).Delete(&trade.SalesOrderItem{}).Error; err != nil {
			return err
		}
		return tx.Where("order_id = ?", id).Delete(&trade.OrderPayment{}).Error
	})
}

// SalesTotalsInRange sums order totals and counts orders created
// within [from, to] for a tenant
func (r *GormSalesOrderRepository) SalesTotalsInRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (trade.SalesTotals, error) {
	var row struct {
		Total  decimal.Decimal
		Orders int64
	}
	if err := r.db.WithContext(ctx).
		Model(&trade.SalesOrder{}).
		Select("COALESCE(SUM(total_amount), 0) AS total, COUNT(*) AS orders").
		Where("tenant_id = ? AND created_at >= ? AND created_at <= ?", tenantID, from, to).
		Scan(&row).Error; err != nil {
		return trade.SalesTotals{}, err
	}
	return trade.SalesTotals{Total: row.Total, Orders: row.Orders}, nil
}

// PaymentTotalsInRange sums captured payments per method for orders
// created within [from, to] for a tenant
func (r *GormSalesOrderRepository) PaymentTotalsInRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (map[trade.PaymentMethodType]trade.PaymentTotals, error) {
	var rows []struct {
		Method trade.PaymentMethodType
		Total  decimal.Decimal
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&trade.OrderPayment{}).
		Select("order_payments.method AS method, COALESCE(SUM(order_payments.amount), 0) AS total, COUNT(*) AS count").
		Joins("JOIN sales_orders ON sales_orders.id = order_payments.order_id").
		Where("sales_orders.tenant_id = ? AND sales_orders.created_at >= ? AND sales_orders.created_at <= ?", tenantID, from, to).
		Group("order_payments.method").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[trade.PaymentMethodType]trade.PaymentTotals, len(rows))
	for _, row := range rows {
		totals[row.Method] = trade.PaymentTotals{Total: row.Total, Count: row.Count}
	}
	return totals, nil
}

// CountForTenant counts sales orders for a tenant
func (r *GormSalesOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.buildListQuery(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSalesOrderRepository) buildListQuery(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&trade.SalesOrder{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		query = query.Where("order_number LIKE ?", "%"+filter.Search+"%")
	}
	if customerID, ok := filter.Filters["customer_id"]; ok {
		query = query.Where("customer_id = ?", customerID)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if startDate, ok := filter.Filters["start_date"]; ok {
		query = query.Where("created_at >= ?", startDate)
	}
	if endDate, ok := filter.Filters["end_date"]; ok {
		query = query.Where("created_at <= ?", endDate)
	}

	return query
}
