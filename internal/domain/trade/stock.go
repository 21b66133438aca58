package trade

import (
	"github.com/commerce/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// ValidateStock checks requested quantities against available stock.
// Only products with stock tracking enabled are checked; untracked
// products are exempt regardless of their stock field. Returns a
// StockShortageError for the first shortage found.
func ValidateStock(lines []RequestedLine, products map[uuid.UUID]*catalog.Product) error {
	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok || product == nil {
			return &ProductNotFoundError{ProductID: line.ProductID}
		}
		if !product.RequireStock {
			continue
		}
		if product.Stock < line.Quantity {
			return &StockShortageError{
				ProductID: line.ProductID,
				Available: product.Stock,
				Requested: line.Quantity,
			}
		}
	}
	return nil
}
