package trade

import (
	"fmt"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductNotFoundError reports a line item referencing a product that
// does not exist. A missing product is never treated as zero-cost.
type ProductNotFoundError struct {
	ProductID uuid.UUID
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error {
	return shared.ErrNotFound
}

// CrossTenantError reports a line item referencing a product owned by
// a different business. Kept distinct from not-found internally; the
// HTTP layer reports both the same way so tenants cannot probe each
// other's catalogs.
type CrossTenantError struct {
	ProductID uuid.UUID
}

func (e *CrossTenantError) Error() string {
	return fmt.Sprintf("product %s belongs to another business", e.ProductID)
}

func (e *CrossTenantError) Unwrap() error {
	return shared.ErrCrossTenantAccess
}

// StockShortageError reports a stock-managed product with less stock
// than requested.
type StockShortageError struct {
	ProductID uuid.UUID
	Available int64
	Requested int64
}

func (e *StockShortageError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *StockShortageError) Unwrap() error {
	return shared.ErrInsufficientStock
}

// OrderCommitError wraps a transactional commit failure. The cause is
// logged internally and never surfaced to clients.
type OrderCommitError struct {
	Cause error
}

func (e *OrderCommitError) Error() string {
	return "order commit failed: " + e.Cause.Error()
}

func (e *OrderCommitError) Unwrap() error {
	return shared.ErrOrderCreation
}
