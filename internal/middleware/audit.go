package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zenops/zen-ops-console/pkg/middleware/requestid"
)

// Audit logs successful mutations so admin changes can be traced to a user.
func Audit(logger *zap.Logger, action string) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}
		fields := []zap.Field{
			zap.String("action", action),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("request_id", requestid.Value(c)),
		}
		if target := c.Param("id"); target != "" {
			fields = append(fields, zap.String("target_id", target))
		}
		if sess, ok := CurrentUser(c); ok {
			fields = append(fields, zap.Int("actor_id", sess.ID), zap.String("actor_email", sess.Email))
		}
		logger.Info("audit", fields...)
	}
}
