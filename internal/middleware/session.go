package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zenops/zen-ops-console/internal/service"
	"github.com/zenops/zen-ops-console/internal/session"
)

// ContextSessionIDKey is the gin context key storing the browser session id.
const ContextSessionIDKey = "sessionID"

// SessionConfig configures the console session cookie.
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Session binds every request to a browser session. The id travels in an
// HttpOnly cookie; the session record lives in the namespace of that id.
func Session(cfg SessionConfig, spaces session.Namespaces, metricsSvc *service.MetricsService, logger *zap.Logger) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = "zenops_sid"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		sid, err := c.Cookie(cfg.CookieName)
		if err != nil {
			sid = uuid.NewString()
		} else if _, err := uuid.Parse(sid); err != nil {
			sid = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, sid, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)

		store := session.NewKVStore(spaces.KV(sid), logger)
		ctx := session.WithStore(c.Request.Context(), store)
		_, found := store.Current(ctx)
		metricsSvc.RecordSessionLookup(found)

		c.Set(ContextSessionIDKey, sid)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// SessionID returns the browser session id bound by Session.
func SessionID(c *gin.Context) string {
	if v, ok := c.Get(ContextSessionIDKey); ok {
		if sid, ok := v.(string); ok {
			return sid
		}
	}
	return ""
}
