package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "zenops_user", []byte(`{"email":"a@b.c"}`)))
	data, err := store.Get(ctx, "zenops_user")
	require.NoError(t, err)
	require.JSONEq(t, `{"email":"a@b.c"}`, string(data))

	require.NoError(t, store.Set(ctx, "zenops_user", []byte(`{"email":"x@y.z"}`)))
	data, err = store.Get(ctx, "zenops_user")
	require.NoError(t, err)
	require.JSONEq(t, `{"email":"x@y.z"}`, string(data))

	require.NoError(t, store.Delete(ctx, "zenops_user"))
	_, err = store.Get(ctx, "zenops_user")
	require.True(t, errors.Is(err, appErrors.ErrCacheMiss))
}

func TestLocalStorageDeleteMissingKey(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Delete(context.Background(), "vb_token"))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = store.Set(context.Background(), "../escape", []byte("x"))
	require.Error(t, err)
	require.True(t, errors.Is(err, appErrors.ErrValidation))
}
