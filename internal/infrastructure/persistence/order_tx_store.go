package persistence

import (
	"context"
	"fmt"

	"github.com/commerce/backend/internal/domain/catalog"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormTxOp carries one write to run inside the commit transaction
type gormTxOp struct {
	kind  string
	apply func(tx *gorm.DB) error
}

func (op gormTxOp) OpKind() string { return op.kind }

// GormOrderTxStore implements OrderTxStore using GORM transactions
type GormOrderTxStore struct {
	db *gorm.DB
}

// NewGormOrderTxStore creates a new GormOrderTxStore
func NewGormOrderTxStore(db *gorm.DB) *GormOrderTxStore {
	return &GormOrderTxStore{db: db}
}

// FetchProducts loads products by id without tenant filtering so the
// caller can distinguish a missing product from one owned by another
// tenant.
func (s *GormOrderTxStore) FetchProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*catalog.Product{}, nil
	}

	var products []catalog.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}

	result := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		result[products[i].ID] = &products[i]
	}
	return result, nil
}

// InsertOrderOp builds the op that persists the order with its items
// and payments.
func (s *GormOrderTxStore) InsertOrderOp(order *trade.SalesOrder) trade.TxOp {
	return gormTxOp{kind: "insert_order", apply: func(tx *gorm.DB) error {
		return tx.Create(order).Error
	}}
}

// DecrementStockOp builds a conditional stock decrement for one
// product. The guard in the WHERE clause is what prevents concurrent
// orders from driving stock negative: if another transaction drained
// the stock first, no row matches and the commit fails.
func (s *GormOrderTxStore) DecrementStockOp(productID, tenantID uuid.UUID, quantity int64) trade.TxOp {
	return gormTxOp{kind: "decrement_stock", apply: func(tx *gorm.DB) error {
		result := tx.Model(&catalog.Product{}).
			Where("id = ? AND tenant_id = ? AND require_stock = ? AND stock >= ?",
				productID, tenantID, true, quantity).
			Update("stock", gorm.Expr("stock - ?", quantity))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("stock decrement for product %s: %w", productID, shared.ErrInsufficientStock)
		}
		return nil
	}}
}

// Commit applies all ops atomically. On error nothing is visible.
func (s *GormOrderTxStore) Commit(ctx context.Context, ops []trade.TxOp) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range ops {
			gop, ok := op.(gormTxOp)
			if !ok {
				return fmt.Errorf("foreign tx op %T", op)
			}
			if err := gop.apply(tx); err != nil {
				return err
			}
		}
		return nil
	})
}
