package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billing-counter/internal/presentation/http/dto/response"
	"github.com/sangkips/billing-counter/pkg/utils"
)

// Context keys set by AuthMiddleware.
const (
	ContextUsername = "username"
	ContextUserRole = "user_role"
)

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUsername, claims.Username)
		c.Set(ContextUserRole, claims.Role)

		c.Next()
	}
}

// RequireRole lets the request through only when the signed-in operator
// holds one of the given roles. Role names compare case-insensitively.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(ContextUserRole)
		if userRole == "" {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		for _, required := range roles {
			if strings.EqualFold(userRole, required) {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "Insufficient role privileges",
		})
		c.Abort()
	}
}
