package catalog

import (
	"time"

	"github.com/commerce/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name             string           `json:"name" binding:"required,min=2,max=200"`
	Description      string           `json:"description" binding:"omitempty,max=2000"`
	Image            string           `json:"image" binding:"omitempty,max=500"`
	SKU              string           `json:"sku" binding:"omitempty,max=50"`
	Unit             string           `json:"unit" binding:"required,oneof=und ml l g kg cm m day"`
	Measure          string           `json:"measure" binding:"omitempty,max=50"`
	Price            *decimal.Decimal `json:"price"`
	OfferPrice       *decimal.Decimal `json:"offer_price"`
	RequireStock     bool             `json:"require_stock"`
	Stock            *int64           `json:"stock" binding:"omitempty,min=0"`
	IsSubscription   bool             `json:"is_subscription"`
	SubscriptionDays int              `json:"subscription_days" binding:"omitempty,min=1"`
	Publish          bool             `json:"publish"`
	CreatedBy        *uuid.UUID       `json:"-"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        string           `json:"name" binding:"required,min=2,max=200"`
	Description string           `json:"description" binding:"omitempty,max=2000"`
	Image       string           `json:"image" binding:"omitempty,max=500"`
	Measure     string           `json:"measure" binding:"omitempty,max=50"`
	Price       *decimal.Decimal `json:"price"`
	OfferPrice  *decimal.Decimal `json:"offer_price"`
}

// UpdateStockRequest sets the tracked stock level directly
type UpdateStockRequest struct {
	RequireStock bool  `json:"require_stock"`
	Stock        int64 `json:"stock" binding:"min=0"`
}

// ProductListFilter represents filter options for product listing
type ProductListFilter struct {
	Search   string                 `form:"search"`
	Status   *catalog.ProductStatus `form:"status"`
	Page     int                    `form:"page" binding:"omitempty,min=1"`
	PageSize int                    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string                 `form:"order_by"`
	OrderDir string                 `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	Description      string           `json:"description,omitempty"`
	Image            string           `json:"image,omitempty"`
	SKU              string           `json:"sku,omitempty"`
	Unit             string           `json:"unit"`
	Measure          string           `json:"measure,omitempty"`
	Status           string           `json:"status"`
	Price            *decimal.Decimal `json:"price,omitempty"`
	OfferPrice       *decimal.Decimal `json:"offer_price,omitempty"`
	EffectivePrice   decimal.Decimal  `json:"effective_price"`
	RequireStock     bool             `json:"require_stock"`
	Stock            int64            `json:"stock"`
	IsSubscription   bool             `json:"is_subscription"`
	SubscriptionDays int              `json:"subscription_days,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// ToProductResponse maps a product aggregate to its response
func ToProductResponse(product *catalog.Product) ProductResponse {
	sku := ""
	if product.SKU != nil {
		sku = *product.SKU
	}
	return ProductResponse{
		ID:               product.ID,
		Name:             product.Name,
		Description:      product.Description,
		Image:            product.Image,
		SKU:              sku,
		Unit:             string(product.Unit),
		Measure:          product.Measure,
		Status:           string(product.Status),
		Price:            product.Price,
		OfferPrice:       product.OfferPrice,
		EffectivePrice:   product.EffectivePrice(),
		RequireStock:     product.RequireStock,
		Stock:            product.Stock,
		IsSubscription:   product.IsSubscription,
		SubscriptionDays: product.SubscriptionDays,
		CreatedAt:        product.CreatedAt,
		UpdatedAt:        product.UpdatedAt,
	}
}

// ToProductResponses maps products to responses
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses
}
