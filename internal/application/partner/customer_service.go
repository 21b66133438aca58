package partner

import (
	"context"
	"errors"

	"github.com/commerce/backend/internal/domain/partner"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, logger: logger}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	if req.Email != "" {
		if _, err := s.customerRepo.FindByEmail(ctx, tenantID, req.Email); err == nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
		} else if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("customer email lookup failed", zap.Error(err))
			return nil, shared.ErrInternal
		}
	}

	customer, err := partner.NewCustomer(tenantID, userID, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}

	if req.Email != "" || req.Phone != "" {
		if err := customer.SetContact(req.Email, req.Phone); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		if err := customer.Update(req.FirstName, req.LastName, req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		s.logger.Error("customer save failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return nil, shared.ErrInternal
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	customers, err := s.customerRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.customerRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCustomerResponses(customers), total, nil
}

// Update updates a customer's fields
func (s *CustomerService) Update(ctx context.Context, tenantID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	if err := customer.Update(req.FirstName, req.LastName, req.Notes); err != nil {
		return nil, err
	}
	if err := customer.SetContact(req.Email, req.Phone); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		s.logger.Error("customer update failed",
			zap.String("customer_id", customerID.String()),
			zap.Error(err))
		return nil, shared.ErrInternal
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Deactivate disables a customer
func (s *CustomerService) Deactivate(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	return s.transition(ctx, tenantID, customerID, (*partner.Customer).Deactivate)
}

// Activate re-enables a customer
func (s *CustomerService) Activate(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	return s.transition(ctx, tenantID, customerID, (*partner.Customer).Activate)
}

// Delete removes a customer. Orders referencing the customer keep
// their customer_id.
func (s *CustomerService) Delete(ctx context.Context, tenantID, customerID uuid.UUID) error {
	if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID); err != nil {
		return err
	}
	return s.customerRepo.DeleteForTenant(ctx, tenantID, customerID)
}

func (s *CustomerService) transition(ctx context.Context, tenantID, customerID uuid.UUID, fn func(*partner.Customer) error) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	if err := fn(customer); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, shared.ErrInternal
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}
