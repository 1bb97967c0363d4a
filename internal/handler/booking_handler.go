package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/servilink/service-booking/internal/application"
	"github.com/servilink/service-booking/internal/auth"
	"github.com/servilink/service-booking/internal/domain/identity"
	"github.com/servilink/service-booking/internal/middleware"
	"github.com/servilink/service-booking/internal/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	bookings := r.Group("/api/v1/bookings")
	{
		// The review listing is the only public booking surface.
		bookings.GET("/reviews/:providerId", h.ListReviews)

		bookings.POST("", authMW, middleware.RequireRole(identity.RoleUser), h.CreateBooking)
		bookings.GET("/my-bookings", authMW, middleware.RequireRole(identity.RoleUser), h.MyBookings)
		bookings.GET("/requests", authMW, middleware.RequireRole(identity.RoleProvider), h.Requests)
		bookings.GET("/stats", authMW, middleware.RequireRole(identity.RoleProvider), h.ProviderStats)
		bookings.GET("/:id", authMW, h.GetBooking)
		bookings.PUT("/:id/accept", authMW, middleware.RequireRole(identity.RoleProvider), h.AcceptBooking)
		bookings.PUT("/:id/reject", authMW, middleware.RequireRole(identity.RoleProvider), h.RejectBooking)
		bookings.PUT("/:id/complete", authMW, middleware.RequireRole(identity.RoleProvider), h.CompleteBooking)
		bookings.PUT("/:id/cancel", authMW, middleware.RequireRole(identity.RoleUser), h.CancelBooking)
		bookings.PUT("/:id/rate", authMW, middleware.RequireRole(identity.RoleUser), h.RateBooking)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), user, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// AcceptBooking handles PUT /api/v1/bookings/:id/accept.
func (h *BookingHandler) AcceptBooking(c *gin.Context) {
	provider, bookingID, ok := h.providerAndID(c)
	if !ok {
		return
	}

	// The body is optional; an empty one means no price override. A body
	// that is present but malformed is still a client error.
	var req application.AcceptBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AcceptBooking(c.Request.Context(), provider, bookingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RejectBooking handles PUT /api/v1/bookings/:id/reject.
func (h *BookingHandler) RejectBooking(c *gin.Context) {
	provider, bookingID, ok := h.providerAndID(c)
	if !ok {
		return
	}

	var req application.RejectBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RejectBooking(c.Request.Context(), provider, bookingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CompleteBooking handles PUT /api/v1/bookings/:id/complete.
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	provider, bookingID, ok := h.providerAndID(c)
	if !ok {
		return
	}

	result, err := h.service.CompleteBooking(c.Request.Context(), provider, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelBooking handles PUT /api/v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	user, bookingID, ok := h.userAndID(c)
	if !ok {
		return
	}

	result, err := h.service.CancelBooking(c.Request.Context(), user, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RateBooking handles PUT /api/v1/bookings/:id/rate.
func (h *BookingHandler) RateBooking(c *gin.Context) {
	user, bookingID, ok := h.userAndID(c)
	if !ok {
		return
	}

	var req application.RateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RateBooking(c.Request.Context(), user, bookingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	actorID, role, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), actorID, role, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// MyBookings handles GET /api/v1/bookings/my-bookings.
func (h *BookingHandler) MyBookings(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	result, err := h.service.GetUserBookings(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Requests handles GET /api/v1/bookings/requests.
func (h *BookingHandler) Requests(c *gin.Context) {
	provider, ok := middleware.GetProvider(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	result, err := h.service.GetProviderRequests(c.Request.Context(), provider)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ProviderStats handles GET /api/v1/bookings/stats.
func (h *BookingHandler) ProviderStats(c *gin.Context) {
	provider, ok := middleware.GetProvider(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	result, err := h.service.GetProviderStats(c.Request.Context(), provider)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListReviews handles GET /api/v1/bookings/reviews/:providerId.
func (h *BookingHandler) ListReviews(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("providerId"))
	if err != nil {
		response.BadRequest(c, "invalid provider ID")
		return
	}

	result, err := h.service.ListProviderReviews(c.Request.Context(), providerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// --- Helpers ---

func (h *BookingHandler) userAndID(c *gin.Context) (identity.User, uuid.UUID, bool) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return identity.User{}, uuid.Nil, false
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return identity.User{}, uuid.Nil, false
	}
	return user, bookingID, true
}

func (h *BookingHandler) providerAndID(c *gin.Context) (identity.Provider, uuid.UUID, bool) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return identity.Provider{}, uuid.Nil, false
	}

	provider, ok := middleware.GetProvider(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return identity.Provider{}, uuid.Nil, false
	}
	return provider, bookingID, true
}
