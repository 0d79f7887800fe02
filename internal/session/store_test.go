package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zenops/zen-ops-console/internal/models"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
)

type failingKV struct {
	*MemoryKV
	getErr error
}

func (f *failingKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.MemoryKV.Get(ctx, key)
}

func TestKVStoreSetNormalises(t *testing.T) {
	kv := NewMemoryKV()
	store := NewKVStore(kv, zap.NewNop())
	ctx := context.Background()

	err := store.Set(ctx, models.Session{ID: 3, Email: "  Ops@ZenOps.IN ", Role: " ADMIN ", Token: " abc "})
	require.NoError(t, err)

	sess, ok := store.Current(ctx)
	require.True(t, ok)
	assert.Equal(t, "ops@zenops.in", sess.Email)
	assert.Equal(t, "ADMIN", sess.Role)
	assert.Equal(t, "abc", sess.Token)
	assert.Equal(t, 3, sess.ID)
}

func TestKVStoreRejectsAnonymousSession(t *testing.T) {
	store := NewKVStore(NewMemoryKV(), nil)
	err := store.Set(context.Background(), models.Session{Name: "Nobody"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestKVStoreReadsAlternateFieldNames(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, StorageKey, []byte(`{"id":"9","email":"A@B.C","access_token":"tok","full_name":"Asha","role":"HR","permissions":["users.read"]}`)))

	sess, ok := NewKVStore(kv, nil).Current(ctx)
	require.True(t, ok)
	assert.Equal(t, 9, sess.ID)
	assert.Equal(t, "a@b.c", sess.Email)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, "Asha", sess.Name)
	assert.Equal(t, []string{"users.read"}, sess.Permissions)
}

func TestKVStoreNoSession(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, StorageKey, []byte(`{"name":"ghost"}`)))

	sess, ok := NewKVStore(kv, nil).Current(ctx)
	assert.False(t, ok)
	assert.Nil(t, sess)
}

func TestKVStoreMigratesLegacyKeys(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "vb_token", []byte("legacy-token")))
	require.NoError(t, kv.Set(ctx, "user_email", []byte("Old@Zen.Ops")))
	require.NoError(t, kv.Set(ctx, "vb_name", []byte("Old Timer")))

	store := NewKVStore(kv, nil)
	sess, ok := store.Current(ctx)
	require.True(t, ok)
	assert.Equal(t, "legacy-token", sess.Token)
	assert.Equal(t, "old@zen.ops", sess.Email)
	assert.Equal(t, "EMPLOYEE", sess.Role)
	assert.Equal(t, "Old Timer", sess.Name)

	raw, err := kv.Get(ctx, StorageKey)
	require.NoError(t, err)
	var stored models.Session
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, "legacy-token", stored.Token)
}

func TestKVStoreClearRemovesLegacyKeys(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	store := NewKVStore(kv, nil)
	require.NoError(t, store.Set(ctx, models.Session{Email: "a@b.c"}))
	for _, key := range LegacyKeys() {
		require.NoError(t, kv.Set(ctx, key, []byte("x")))
	}

	require.NoError(t, store.Clear(ctx))
	assert.Equal(t, 0, kv.Len())

	_, ok := store.Current(ctx)
	assert.False(t, ok)
}

func TestKVStoreSubscribers(t *testing.T) {
	store := NewKVStore(NewMemoryKV(), nil)
	ctx := context.Background()

	var seen []*models.Session
	cancel := store.Subscribe(func(s *models.Session) { seen = append(seen, s) })

	require.NoError(t, store.Set(ctx, models.Session{Email: "a@b.c"}))
	require.NoError(t, store.Clear(ctx))
	cancel()
	require.NoError(t, store.Set(ctx, models.Session{Email: "d@e.f"}))

	require.Len(t, seen, 2)
	require.NotNil(t, seen[0])
	assert.Equal(t, "a@b.c", seen[0].Email)
	assert.Nil(t, seen[1])
}

func TestKVStoreReadErrorMeansNoSession(t *testing.T) {
	kv := &failingKV{MemoryKV: NewMemoryKV(), getErr: errors.New("redis down")}
	sess, ok := NewKVStore(kv, nil).Current(context.Background())
	assert.False(t, ok)
	assert.Nil(t, sess)
}

func TestFromLogin(t *testing.T) {
	name := "Ravi"
	sess := FromLogin(models.LoginResponse{
		AccessToken: "jwt",
		User:        models.User{ID: 4, Email: "Ravi@Zen.Ops", FullName: &name, Role: models.RoleFinance},
	})
	assert.Equal(t, "ravi@zen.ops", sess.Email)
	assert.Equal(t, "jwt", sess.Token)
	assert.Equal(t, "FINANCE", sess.Role)
	assert.Equal(t, "Ravi", sess.Name)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ops@zen.ops",
		"exp": exp.Unix(),
	}).SignedString([]byte("irrelevant"))
	require.NoError(t, err)

	got, ok := TokenExpiry(token)
	require.True(t, ok)
	assert.True(t, got.Equal(exp))
	assert.Equal(t, "ops@zen.ops", TokenSubject(token))

	_, ok = TokenExpiry("not-a-jwt")
	assert.False(t, ok)
}
