package auth

import (
	"net/http"
	"strings"

	"timeclock-backend/internal/database/models"
	"timeclock-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// Middleware provides JWT authentication middleware
type Middleware struct {
	service *Service
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(service *Service) *Middleware {
	return &Middleware{service: service}
}

// RequireAuth validates JWT tokens and sets the caller identity on the context
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := m.service.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token", "details": err.Error()})
			c.Abort()
			return
		}

		c.Set("member_id", claims.MemberID.String())
		c.Set("email", claims.Email)
		c.Set("auth_claims", claims)

		c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allowed set
func (m *Middleware) RequireRole(roles ...models.MemberRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		for _, role := range roles {
			if models.MemberRole(claims.Role) == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
		c.Abort()
	}
}

// ClaimsFromContext returns the validated claims set by RequireAuth
func ClaimsFromContext(c *gin.Context) (*Claims, bool) {
	value, exists := c.Get("auth_claims")
	if !exists {
		return nil, false
	}
	claims, ok := value.(*Claims)
	return claims, ok
}

// CallerFromContext builds the service-layer caller identity from the
// validated claims.
func CallerFromContext(c *gin.Context) (service.Caller, bool) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return service.Caller{}, false
	}
	return service.Caller{
		MemberID: claims.MemberID,
		TenantID: claims.TenantID,
		Role:     models.MemberRole(claims.Role),
	}, true
}
