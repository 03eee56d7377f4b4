package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

// RequireRole allows the request only when the authenticated user holds one of roles.
// Must run after RequireAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := GetRole(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, "Insufficient permissions for this action")
	}
}

// RequireAdministrator is RequireRole(models.RoleAdministrator)
func RequireAdministrator() gin.HandlerFunc {
	return RequireRole(models.RoleAdministrator)
}
