package catalog

import (
	"context"

	"github.com/commerce/backend/internal/domain/catalog"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{productRepo: productRepo, logger: logger}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	if req.SKU != "" {
		exists, err := s.productRepo.ExistsBySKU(ctx, tenantID, req.SKU)
		if err != nil {
			s.logger.Error("sku existence check failed", zap.Error(err))
			return nil, shared.ErrInternal
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
		}
	}

	product, err := catalog.NewProduct(tenantID, userID, req.Name, catalog.ProductUnit(req.Unit))
	if err != nil {
		return nil, err
	}

	if req.Description != "" || req.Image != "" || req.Measure != "" {
		if err := product.Update(req.Name, req.Description, req.Image, req.Measure); err != nil {
			return nil, err
		}
	}

	if req.SKU != "" {
		if err := product.SetSKU(req.SKU); err != nil {
			return nil, err
		}
	}

	if req.Price != nil || req.OfferPrice != nil {
		if err := product.SetPricing(req.Price, req.OfferPrice); err != nil {
			return nil, err
		}
	}

	if req.RequireStock {
		initial := int64(0)
		if req.Stock != nil {
			initial = *req.Stock
		}
		if err := product.EnableStockTracking(initial); err != nil {
			return nil, err
		}
	}

	if req.IsSubscription {
		if err := product.SetSubscription(req.SubscriptionDays); err != nil {
			return nil, err
		}
	}

	if req.Publish {
		if err := product.Publish(); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("product save failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return nil, shared.ErrInternal
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if product.IsDeleted() {
		return nil, shared.ErrNotFound
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}

	products, err := s.productRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// Update updates a product's descriptive fields and pricing
func (s *ProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.findLive(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description, req.Image, req.Measure); err != nil {
		return nil, err
	}
	if err := product.SetPricing(req.Price, req.OfferPrice); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("product update failed",
			zap.String("product_id", productID.String()),
			zap.Error(err))
		return nil, shared.ErrInternal
	}

	response := ToProductResponse(product)
	return &response, nil
}

// UpdateStock sets the stock tracking mode and level outside the order
// workflow (receiving inventory, corrections).
func (s *ProductService) UpdateStock(ctx context.Context, tenantID, productID uuid.UUID, req UpdateStockRequest) (*ProductResponse, error) {
	product, err := s.findLive(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if req.RequireStock {
		if product.RequireStock {
			if err := product.SetStock(req.Stock); err != nil {
				return nil, err
			}
		} else if err := product.EnableStockTracking(req.Stock); err != nil {
			return nil, err
		}
	} else {
		product.DisableStockTracking()
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, shared.ErrInternal
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Publish makes a product visible and sellable
func (s *ProductService) Publish(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	return s.transition(ctx, tenantID, productID, (*catalog.Product).Publish)
}

// Unpublish returns a product to draft
func (s *ProductService) Unpublish(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	return s.transition(ctx, tenantID, productID, (*catalog.Product).Unpublish)
}

// Delete soft-deletes a product. Existing order lines keep their
// snapshot of it.
func (s *ProductService) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	product, err := s.findLive(ctx, tenantID, productID)
	if err != nil {
		return err
	}

	if err := product.MarkDeleted(); err != nil {
		return err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return shared.ErrInternal
	}

	s.logger.Info("product deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("product_id", productID.String()))
	return nil
}

func (s *ProductService) transition(ctx context.Context, tenantID, productID uuid.UUID, fn func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.findLive(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if err := fn(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, shared.ErrInternal
	}

	response := ToProductResponse(product)
	return &response, nil
}

// findLive loads a tenant's product, treating soft-deleted ones as
// missing.
func (s *ProductService) findLive(ctx context.Context, tenantID, productID uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if product.IsDeleted() {
		return nil, shared.ErrNotFound
	}
	return product, nil
}
