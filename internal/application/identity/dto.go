package identity

import (
	"time"

	"github.com/commerce/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterRequest creates a business together with its admin user
type RegisterRequest struct {
	BusinessName string `json:"business_name" binding:"required,min=2,max=120"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8,max=72"`
	FirstName    string `json:"first_name" binding:"omitempty,max=80"`
	LastName     string `json:"last_name" binding:"omitempty,max=80"`
	Phone        string `json:"phone" binding:"omitempty,max=32"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest carries the refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest changes the current user's password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// UpdateProfileRequest updates the current user's profile fields
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"omitempty,max=80"`
	LastName  string `json:"last_name" binding:"omitempty,max=80"`
	Phone     string `json:"phone" binding:"omitempty,max=32"`
}

// CreateUserRequest lets an admin add a user to the business
type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	Role      string `json:"role" binding:"required,oneof=admin assistant customer"`
	FirstName string `json:"first_name" binding:"omitempty,max=80"`
	LastName  string `json:"last_name" binding:"omitempty,max=80"`
	Phone     string `json:"phone" binding:"omitempty,max=32"`
}

// UserListFilter represents filter options for user listing
type UserListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UpdateBusinessRequest updates business profile fields
type UpdateBusinessRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=120"`
	Phone   string `json:"phone" binding:"omitempty,max=32"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address" binding:"omitempty,max=255"`
	LogoURL string `json:"logo_url" binding:"omitempty,url"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name,omitempty"`
	LastName    string     `json:"last_name,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// BusinessResponse represents a business in API responses
type BusinessResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	OwnerID   *uuid.UUID `json:"owner_id,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Email     string     `json:"email,omitempty"`
	Address   string     `json:"address,omitempty"`
	LogoURL   string     `json:"logo_url,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// AuthResponse carries the token pair and the authenticated user
type AuthResponse struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
}

// ToUserResponse maps a user aggregate to its response
func ToUserResponse(user *identity.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		TenantID:    user.TenantID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Phone:       user.Phone,
		Role:        string(user.Role),
		Status:      string(user.Status),
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// ToUserResponses maps users to responses
func ToUserResponses(users []identity.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}

// ToBusinessResponse maps a business aggregate to its response
func ToBusinessResponse(business *identity.Business) BusinessResponse {
	return BusinessResponse{
		ID:        business.ID,
		Name:      business.Name,
		OwnerID:   business.OwnerID,
		Phone:     business.Phone,
		Email:     business.Email,
		Address:   business.Address,
		LogoURL:   business.LogoURL,
		Status:    string(business.Status),
		CreatedAt: business.CreatedAt,
	}
}
