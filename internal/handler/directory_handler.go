package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/servilink/service-booking/internal/application"
	"github.com/servilink/service-booking/internal/auth"
	"github.com/servilink/service-booking/internal/domain/catalog"
	"github.com/servilink/service-booking/internal/domain/identity"
	"github.com/servilink/service-booking/internal/middleware"
	"github.com/servilink/service-booking/internal/response"
)

// DirectoryHandler handles HTTP requests for the provider directory.
type DirectoryHandler struct {
	service *application.DirectoryService
}

// NewDirectoryHandler creates a new DirectoryHandler.
func NewDirectoryHandler(service *application.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// RegisterRoutes registers directory routes on the given router group.
func (h *DirectoryHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	providers := r.Group("/api/v1/providers")
	{
		providers.GET("", h.ListProviders)
		providers.GET("/:id", h.GetProvider)

		providers.POST("", authMW, middleware.RequireRole(identity.RoleProvider), h.RegisterProvider)
	}
}

// RegisterProvider handles POST /api/v1/providers.
func (h *DirectoryHandler) RegisterProvider(c *gin.Context) {
	provider, ok := middleware.GetProvider(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	var req application.RegisterProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RegisterProvider(c.Request.Context(), provider, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListProviders handles GET /api/v1/providers with optional category and
// pincode filters.
func (h *DirectoryHandler) ListProviders(c *gin.Context) {
	filter := catalog.ProviderFilter{
		Category: c.Query("category"),
		Pincode:  c.Query("pincode"),
	}

	result, err := h.service.ListProviders(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetProvider handles GET /api/v1/providers/:id.
func (h *DirectoryHandler) GetProvider(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid provider ID")
		return
	}

	result, err := h.service.GetProvider(c.Request.Context(), providerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
