package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zenops/zen-ops-console/internal/session"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
)

// SessionKVRepository stores console session records in Redis. Every browser
// session gets its own key namespace so one Redis serves all of them.
type SessionKVRepository struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewSessionKVRepository constructs a repository scoped to namespace.
func NewSessionKVRepository(client *redis.Client, namespace string, ttl time.Duration, logger *zap.Logger) *SessionKVRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionKVRepository{client: client, namespace: namespace, ttl: ttl, logger: logger}
}

func (r *SessionKVRepository) key(key string) string {
	return fmt.Sprintf("zenops:session:%s:%s", r.namespace, key)
}

// Get returns the raw value or ErrCacheMiss.
func (r *SessionKVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if r.client == nil {
		return nil, appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}

// Set stores value and refreshes the namespace TTL.
func (r *SessionKVRepository) Set(ctx context.Context, key string, value []byte) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes key; missing keys are not an error.
func (r *SessionKVRepository) Delete(ctx context.Context, key string) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// Purge removes every key of the namespace.
func (r *SessionKVRepository) Purge(ctx context.Context) error {
	if r.client == nil {
		return nil
	}

	pattern := r.key("*")
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis delete %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan pattern %s: %w", pattern, err)
	}
	r.logger.Debug("session namespace purged", zap.String("namespace", r.namespace))
	return nil
}

// SessionNamespaces opens one SessionKVRepository per browser session.
type SessionNamespaces struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSessionNamespaces constructs the Redis-backed namespace set.
func NewSessionNamespaces(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SessionNamespaces {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionNamespaces{client: client, ttl: ttl, logger: logger}
}

// KV returns the repository for sid.
func (n *SessionNamespaces) KV(sid string) session.KV {
	return NewSessionKVRepository(n.client, sid, n.ttl, n.logger)
}

// Purge removes every key stored for sid.
func (n *SessionNamespaces) Purge(ctx context.Context, sid string) error {
	return NewSessionKVRepository(n.client, sid, n.ttl, n.logger).Purge(ctx)
}
