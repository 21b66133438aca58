package identity

import (
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BusinessStatus represents the status of a business tenant
type BusinessStatus string

const (
	BusinessStatusActive    BusinessStatus = "active"
	BusinessStatusInactive  BusinessStatus = "inactive"
	BusinessStatusSuspended BusinessStatus = "suspended"
)

// Business represents a business account, the tenant boundary for
// products, customers, orders and users.
type Business struct {
	shared.BaseAggregateRoot
	Name    string         `gorm:"type:varchar(200);not null"`
	OwnerID *uuid.UUID     `gorm:"type:uuid;index"`
	Phone   string         `gorm:"type:varchar(50)"`
	Email   string         `gorm:"type:varchar(200)"`
	Address string         `gorm:"type:text"`
	LogoURL string         `gorm:"type:varchar(500)"`
	Status  BusinessStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Business) TableName() string {
	return "businesses"
}

// NewBusiness creates a new active business
func NewBusiness(name string) (*Business, error) {
	if err := validateBusinessName(name); err != nil {
		return nil, err
	}

	return &Business{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Status:            BusinessStatusActive,
	}, nil
}

// Update updates the business profile
func (b *Business) Update(name, phone, email, address, logoURL string) error {
	if err := validateBusinessName(name); err != nil {
		return err
	}

	b.Name = name
	b.Phone = phone
	b.Email = email
	b.Address = address
	b.LogoURL = logoURL
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// SetOwner assigns the owning admin user
func (b *Business) SetOwner(userID uuid.UUID) {
	b.OwnerID = &userID
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// Suspend blocks the business and all its users
func (b *Business) Suspend() error {
	if b.Status == BusinessStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Business is already suspended")
	}

	b.Status = BusinessStatusSuspended
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// Activate re-enables the business
func (b *Business) Activate() error {
	if b.Status == BusinessStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Business is already active")
	}

	b.Status = BusinessStatusActive
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// IsActive returns true if the business may operate
func (b *Business) IsActive() bool {
	return b.Status == BusinessStatusActive
}

func validateBusinessName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Business name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Business name cannot exceed 200 characters")
	}
	return nil
}
