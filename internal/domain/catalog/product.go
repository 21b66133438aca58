package catalog

import (
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the publication status of a product
type ProductStatus string

const (
	ProductStatusPublished ProductStatus = "published"
	ProductStatusDraft     ProductStatus = "draft"
	// Deleted products are kept as rows and filtered out of reads
	ProductStatusDeleted ProductStatus = "deleted"
)

// ProductUnit is the unit of measure a product is sold in
type ProductUnit string

const (
	UnitPiece      ProductUnit = "und"
	UnitMilliliter ProductUnit = "ml"
	UnitLiter      ProductUnit = "l"
	UnitGram       ProductUnit = "g"
	UnitKilogram   ProductUnit = "kg"
	UnitCentimeter ProductUnit = "cm"
	UnitMeter      ProductUnit = "m"
	UnitDay        ProductUnit = "day"
)

// IsValid returns true for a known unit
func (u ProductUnit) IsValid() bool {
	switch u {
	case UnitPiece, UnitMilliliter, UnitLiter, UnitGram, UnitKilogram, UnitCentimeter, UnitMeter, UnitDay:
		return true
	}
	return false
}

// Product represents a sellable item in the catalog.
// It is the aggregate root for product-related operations.
type Product struct {
	shared.TenantAggregateRoot
	Name        string        `gorm:"type:varchar(200);not null"`
	Description string        `gorm:"type:text"`
	Image       string        `gorm:"type:varchar(500)"`
	SKU         *string       `gorm:"type:varchar(50)"`
	Unit        ProductUnit   `gorm:"type:varchar(10);not null;default:'und'"`
	Measure     string        `gorm:"type:varchar(50)"`
	Status      ProductStatus `gorm:"type:varchar(20);not null;default:'draft';index"`

	// Price fields are nullable: a product can be listed before its
	// price is set, and the order workflow treats an unpriced product
	// as zero-cost rather than failing.
	Price      *decimal.Decimal `gorm:"type:decimal(18,2)"`
	OfferPrice *decimal.Decimal `gorm:"type:decimal(18,2)"`

	// RequireStock gates stock validation and decrements. When false
	// the Stock field is untracked and may be stale.
	RequireStock bool  `gorm:"not null;default:false"`
	Stock        int64 `gorm:"not null;default:0"`

	IsSubscription   bool `gorm:"not null;default:false"`
	SubscriptionDays int  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new draft product
func NewProduct(tenantID, createdBy uuid.UUID, name string, unit ProductUnit) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unknown product unit")
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, createdBy),
		Name:                name,
		Unit:                unit,
		Status:              ProductStatusDraft,
	}, nil
}

// Update updates the product's descriptive fields
func (p *Product) Update(name, description, image, measure string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.Image = image
	p.Measure = measure
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetSKU sets the product SKU, unique within the tenant. An empty SKU
// clears the field; cleared SKUs are stored as NULL so unset products
// never collide on the tenant-scoped unique index.
func (p *Product) SetSKU(sku string) error {
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}

	if sku == "" {
		p.SKU = nil
	} else {
		p.SKU = &sku
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPricing sets the list price and optional offer price
func (p *Product) SetPricing(price, offerPrice *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if offerPrice != nil && offerPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Offer price cannot be negative")
	}

	p.Price = price
	p.OfferPrice = offerPrice
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// EffectivePrice returns the unit price charged at checkout: the offer
// price when one is set, the list price otherwise, zero when unpriced.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.OfferPrice != nil {
		return *p.OfferPrice
	}
	if p.Price != nil {
		return *p.Price
	}
	return decimal.Zero
}

// EnableStockTracking turns on stock validation with an initial level
func (p *Product) EnableStockTracking(initialStock int64) error {
	if initialStock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	p.RequireStock = true
	p.Stock = initialStock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// DisableStockTracking exempts the product from stock checks
func (p *Product) DisableStockTracking() {
	p.RequireStock = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetStock replaces the stock level
func (p *Product) SetStock(stock int64) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	p.Stock = stock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetSubscription marks the product as a recurring subscription
func (p *Product) SetSubscription(days int) error {
	if days <= 0 {
		return shared.NewDomainError("INVALID_SUBSCRIPTION", "Subscription days must be positive")
	}

	p.IsSubscription = true
	p.SubscriptionDays = days
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Publish makes the product visible and sellable
func (p *Product) Publish() error {
	if p.Status == ProductStatusDeleted {
		return shared.NewDomainError("CANNOT_PUBLISH", "Cannot publish a deleted product")
	}
	if p.Status == ProductStatusPublished {
		return shared.NewDomainError("ALREADY_PUBLISHED", "Product is already published")
	}

	p.Status = ProductStatusPublished
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Unpublish moves the product back to draft
func (p *Product) Unpublish() error {
	if p.Status == ProductStatusDeleted {
		return shared.NewDomainError("CANNOT_UNPUBLISH", "Cannot unpublish a deleted product")
	}

	p.Status = ProductStatusDraft
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// MarkDeleted soft-deletes the product. The row stays for order
// history; reads filter it out.
func (p *Product) MarkDeleted() error {
	if p.Status == ProductStatusDeleted {
		return shared.NewDomainError("ALREADY_DELETED", "Product is already deleted")
	}

	p.Status = ProductStatusDeleted
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// IsDeleted returns true if the product is soft-deleted
func (p *Product) IsDeleted() bool {
	return p.Status == ProductStatusDeleted
}

// IsPublished returns true if the product is published
func (p *Product) IsPublished() bool {
	return p.Status == ProductStatusPublished
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
