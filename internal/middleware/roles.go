package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yamabiko/project-management-api/internal/errors"
	"github.com/yamabiko/project-management-api/internal/models"
)

// RequireRole rejects callers whose identity does not carry the given role.
// Must run after RequireAuth.
func RequireRole(name models.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := GetIdentity(c)
		if !ok {
			errors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		if !ident.HasRole(name) {
			errors.Forbidden(c, "Insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}
