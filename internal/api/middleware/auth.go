// Package middleware provides gin middleware for JWT authentication and
// role gating.
package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gramseva/gram-seva-backend/internal/models"
	"github.com/gramseva/gram-seva-backend/internal/service/auth"
)

const userKey = "current_user"

// TokenParser validates a session token and returns its claims.
type TokenParser interface {
	ParseToken(token string) (*auth.Claims, error)
}

// RequireAuth validates the Bearer token and stores the caller identity in
// the request context. The identity is rebuilt from the claims; no database
// round trip per request.
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortWithError(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := parser.ParseToken(token)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.Set(userKey, &models.User{
			ID:    claims.UserID,
			Phone: claims.Phone,
			Role:  claims.Role,
		})
		c.Next()
	}
}

// RequireRole allows only callers whose role is in the given set. Must run
// after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortWithError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, "insufficient permissions")
	}
}

// CurrentUser returns the authenticated caller, or nil on public routes.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(userKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

func abortWithError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
