package identity

import (
	"context"

	"github.com/commerce/backend/internal/domain/identity"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BusinessService handles business profile operations
type BusinessService struct {
	businessRepo identity.BusinessRepository
	logger       *zap.Logger
}

// NewBusinessService creates a new BusinessService
func NewBusinessService(businessRepo identity.BusinessRepository, logger *zap.Logger) *BusinessService {
	return &BusinessService{businessRepo: businessRepo, logger: logger}
}

// Get retrieves the business profile
func (s *BusinessService) Get(ctx context.Context, businessID uuid.UUID) (*BusinessResponse, error) {
	business, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	response := ToBusinessResponse(business)
	return &response, nil
}

// Update updates the business profile
func (s *BusinessService) Update(ctx context.Context, businessID uuid.UUID, req UpdateBusinessRequest) (*BusinessResponse, error) {
	business, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if err := business.Update(req.Name, req.Phone, req.Email, req.Address, req.LogoURL); err != nil {
		return nil, err
	}

	if err := s.businessRepo.Save(ctx, business); err != nil {
		s.logger.Error("business update failed",
			zap.String("business_id", businessID.String()),
			zap.Error(err))
		return nil, shared.ErrInternal
	}

	response := ToBusinessResponse(business)
	return &response, nil
}
