package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yamabiko/project-management-api/internal/constants"
	"github.com/yamabiko/project-management-api/internal/errors"
	"github.com/yamabiko/project-management-api/internal/identity"
)

// RequireAuth validates the access token and stores the caller's identity
// in the request context. The token is read from the access token cookie,
// falling back to a Bearer Authorization header.
func RequireAuth(tokens *identity.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			errors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		ident, err := tokens.Parse(token)
		if err != nil {
			errors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyIdentity, ident)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(constants.AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// GetIdentity returns the authenticated caller set by RequireAuth.
func GetIdentity(c *gin.Context) (identity.Identity, bool) {
	value, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return identity.Identity{}, false
	}
	ident, ok := value.(identity.Identity)
	return ident, ok
}
