package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/zenops/zen-ops-console/internal/models"
	"github.com/zenops/zen-ops-console/internal/service"
	"github.com/zenops/zen-ops-console/pkg/response"
)

// ContextUserKey is the gin context key storing the logged-in session.
const ContextUserKey = "currentUser"

// RequireSession blocks requests from browsers that are not logged in.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := service.Actor(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ContextUserKey, sess)
		c.Next()
	}
}

// CurrentUser returns the session stored by RequireSession.
func CurrentUser(c *gin.Context) (*models.Session, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*models.Session)
	return sess, ok && sess != nil
}
