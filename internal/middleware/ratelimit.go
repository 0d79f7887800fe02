package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"

	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
	"github.com/zenops/zen-ops-console/pkg/response"
)

const defaultLoginRate = "10-M"

// NewRateStore returns a Redis-backed limiter store, or an in-memory one when client is nil.
func NewRateStore(client *redis.Client, logger *zap.Logger) limiter.Store {
	if client == nil {
		return memory.NewStore()
	}
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: "zenops:ratelimit"})
	if err != nil {
		if logger != nil {
			logger.Warn("redis rate limit store unavailable, using memory", zap.Error(err))
		}
		return memory.NewStore()
	}
	return store
}

// RateLimit throttles requests per client IP with a formatted rate such as "10-M".
func RateLimit(formatted string, store limiter.Store, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		logger.Warn("invalid rate limit, using default", zap.String("rate", formatted), zap.Error(err))
		rate, _ = limiter.NewRateFromFormatted(defaultLoginRate)
	}
	if store == nil {
		store = memory.NewStore()
	}
	return mgin.NewMiddleware(limiter.New(store, rate),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			response.Error(c, appErrors.ErrRateLimited)
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			logger.Warn("rate limiter failed", zap.Error(err))
			c.Next()
		}),
	)
}
