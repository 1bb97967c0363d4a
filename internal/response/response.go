package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/servilink/service-booking/internal/domain"
)

// Envelope is the uniform JSON result shape for every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// Success writes a 200 envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// BadRequest writes a 400 envelope with a validation code.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Message: message,
		Code:    string(domain.KindValidation),
	})
}

// statusForKind maps each domain error kind to its HTTP status. Kinds stay
// distinguishable through the envelope's code field even when statuses
// collide.
func statusForKind(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindInvalidState, domain.KindAlreadyRated, domain.KindConflict:
		return http.StatusConflict
	case domain.KindInvalidReference:
		return http.StatusUnprocessableEntity
	case domain.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error writes a failure envelope derived from the error's domain kind.
func Error(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	message := err.Error()
	if kind == domain.KindStorage {
		// Storage details stay in the logs.
		message = "internal server error"
	}
	c.JSON(statusForKind(kind), Envelope{
		Success: false,
		Message: message,
		Code:    string(kind),
	})
}
