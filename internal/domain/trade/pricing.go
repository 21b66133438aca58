package trade

import (
	"github.com/commerce/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestedLine is one (product, quantity) pair from an order request.
// Caller-supplied prices are not part of it: totals come from the
// catalog, never from the client.
type RequestedLine struct {
	ProductID      uuid.UUID
	Quantity       int64
	IsSubscription bool
}

// ComputeTotal prices a set of requested lines against fetched
// products. The unit price is the product's offer price when set, the
// list price otherwise, zero when the product is unpriced. A line
// referencing a product absent from the lookup fails with
// ProductNotFoundError.
func ComputeTotal(lines []RequestedLine, products map[uuid.UUID]*catalog.Product) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok || product == nil {
			return decimal.Zero, &ProductNotFoundError{ProductID: line.ProductID}
		}
		lineTotal := product.EffectivePrice().Mul(decimal.NewFromInt(line.Quantity))
		total = total.Add(lineTotal)
	}
	return total, nil
}
