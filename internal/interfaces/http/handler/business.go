package handler

import (
	identityapp "github.com/commerce/backend/internal/application/identity"
	"github.com/commerce/backend/internal/domain/identity"
	"github.com/commerce/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// BusinessHandler handles business profile endpoints
type BusinessHandler struct {
	BaseHandler
	businessService *identityapp.BusinessService
}

// NewBusinessHandler creates a new BusinessHandler
func NewBusinessHandler(businessService *identityapp.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

// RegisterRoutes registers business routes
func (h *BusinessHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/identity/business")
	group.GET("", h.Get)
	group.PUT("", middleware.RequireRole(string(identity.RoleAdmin)), h.Update)
}

// Get returns the authenticated user's business
func (h *BusinessHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	business, err := h.businessService.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, business)
}

// Update updates the business profile
func (h *BusinessHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identityapp.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	business, err := h.businessService.Update(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, business)
}
