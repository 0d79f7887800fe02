package session

import (
	"context"

	"github.com/zenops/zen-ops-console/internal/models"
)

type storeKey struct{}

// WithStore returns a copy of ctx carrying store.
func WithStore(ctx context.Context, store Store) context.Context {
	return context.WithValue(ctx, storeKey{}, store)
}

// FromContext returns the store carried by ctx.
func FromContext(ctx context.Context) (Store, bool) {
	if ctx == nil {
		return nil, false
	}
	store, ok := ctx.Value(storeKey{}).(Store)
	return store, ok && store != nil
}

// ContextSource resolves the session from the store carried by the request
// context, so one API client can serve every console browser session.
type ContextSource struct{}

// Current returns the session of the store in ctx.
func (ContextSource) Current(ctx context.Context) (*models.Session, bool) {
	store, ok := FromContext(ctx)
	if !ok {
		return nil, false
	}
	return store.Current(ctx)
}

// Clear clears the store in ctx.
func (ContextSource) Clear(ctx context.Context) error {
	store, ok := FromContext(ctx)
	if !ok {
		return nil
	}
	return store.Clear(ctx)
}
