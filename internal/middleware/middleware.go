package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/servilink/service-booking/internal/auth"
	"github.com/servilink/service-booking/internal/domain/identity"
)

const (
	ctxKeyActorID   = "actor_id"
	ctxKeyActorRole = "actor_role"
	ctxKeyActorName = "actor_name"
	requestIDHeader = "X-Request-ID"
)

// AuthMiddleware verifies the bearer token and stores the decoded actor
// identity on the gin context.
func AuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing or invalid authorization header"})
			return
		}

		claims, err := jwtManager.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}

		subjectID, err := claims.SubjectID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token subject"})
			return
		}

		c.Set(ctxKeyActorID, subjectID)
		c.Set(ctxKeyActorRole, claims.Role)
		c.Set(ctxKeyActorName, claims.Name)
		c.Next()
	}
}

// RequireRole rejects requests whose verified actor does not carry the role.
func RequireRole(role identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actual, ok := c.Get(ctxKeyActorRole)
		if !ok || actual.(identity.Role) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "insufficient role"})
			return
		}
		c.Next()
	}
}

// GetUser returns the authenticated actor as a user identity.
func GetUser(c *gin.Context) (identity.User, bool) {
	id, role, name, ok := actorFrom(c)
	if !ok || role != identity.RoleUser {
		return identity.User{}, false
	}
	return identity.User{ID: id, Name: name}, true
}

// GetProvider returns the authenticated actor as a provider identity.
func GetProvider(c *gin.Context) (identity.Provider, bool) {
	id, role, name, ok := actorFrom(c)
	if !ok || role != identity.RoleProvider {
		return identity.Provider{}, false
	}
	return identity.Provider{ID: id, Name: name}, true
}

// GetActorID returns the authenticated actor's id regardless of role.
func GetActorID(c *gin.Context) (uuid.UUID, identity.Role, bool) {
	id, role, _, ok := actorFrom(c)
	return id, role, ok
}

func actorFrom(c *gin.Context) (uuid.UUID, identity.Role, string, bool) {
	rawID, ok := c.Get(ctxKeyActorID)
	if !ok {
		return uuid.Nil, "", "", false
	}
	rawRole, ok := c.Get(ctxKeyActorRole)
	if !ok {
		return uuid.Nil, "", "", false
	}
	name := c.GetString(ctxKeyActorName)
	return rawID.(uuid.UUID), rawRole.(identity.Role), name, true
}

// RequestIDMiddleware attaches a request ID, reusing the caller's if present.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// RecoveryMiddleware converts panics into 500 responses with a log entry.
func RecoveryMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
			}
		}()
		c.Next()
	}
}

// LoggerMiddleware logs one line per request.
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}

// CORSMiddleware allows cross-origin requests from web clients.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// SecurityHeadersMiddleware sets baseline security response headers.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("Referrer-Policy", "no-referrer")
		c.Next()
	}
}
