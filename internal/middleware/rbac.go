package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/zenops/zen-ops-console/internal/models"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
	"github.com/zenops/zen-ops-console/pkg/response"
)

// RequireRoles admits sessions whose role is one of roles. It must run after RequireSession.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		sess, ok := CurrentUser(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[models.NormalizeRole(sess.Role)]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin admits ADMIN sessions only.
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin)
}
