package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/servilink/service-booking/internal/application"
	"github.com/servilink/service-booking/internal/auth"
	"github.com/servilink/service-booking/internal/domain/identity"
	"github.com/servilink/service-booking/internal/middleware"
	"github.com/servilink/service-booking/internal/response"
)

// CatalogHandler handles HTTP requests for the service catalog.
type CatalogHandler struct {
	service *application.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers catalog routes on the given router group.
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	providerRole := middleware.RequireRole(identity.RoleProvider)

	services := r.Group("/api/v1/services")
	{
		services.GET("/provider/:providerId", h.ListProviderServices)

		services.POST("", authMW, providerRole, h.CreateService)
		services.PUT("/:id", authMW, providerRole, h.UpdateService)
		services.DELETE("/:id", authMW, providerRole, h.DeactivateService)
	}
}

// CreateService handles POST /api/v1/services.
func (h *CatalogHandler) CreateService(c *gin.Context) {
	provider, ok := middleware.GetProvider(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	var req application.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateService(c.Request.Context(), provider, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateService handles PUT /api/v1/services/:id.
func (h *CatalogHandler) UpdateService(c *gin.Context) {
	provider, serviceID, ok := h.providerAndID(c)
	if !ok {
		return
	}

	var req application.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateService(c.Request.Context(), provider, serviceID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeactivateService handles DELETE /api/v1/services/:id.
func (h *CatalogHandler) DeactivateService(c *gin.Context) {
	provider, serviceID, ok := h.providerAndID(c)
	if !ok {
		return
	}

	if err := h.service.DeactivateService(c.Request.Context(), provider, serviceID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deactivated": true})
}

// ListProviderServices handles GET /api/v1/services/provider/:providerId.
func (h *CatalogHandler) ListProviderServices(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("providerId"))
	if err != nil {
		response.BadRequest(c, "invalid provider ID")
		return
	}

	result, err := h.service.GetProviderServices(c.Request.Context(), providerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func (h *CatalogHandler) providerAndID(c *gin.Context) (identity.Provider, uuid.UUID, bool) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid service ID")
		return identity.Provider{}, uuid.Nil, false
	}

	provider, ok := middleware.GetProvider(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return identity.Provider{}, uuid.Nil, false
	}
	return provider, serviceID, true
}
