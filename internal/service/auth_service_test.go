package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenops/zen-ops-console/internal/models"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
)

func TestLoginStoresSession(t *testing.T) {
	repo := &fakeAuthRepo{loginResp: &models.LoginResponse{
		AccessToken: "abc",
		TokenType:   "bearer",
		User:        models.User{ID: 3, Email: "ops@zenops.in", FullName: strPtr("Ops Lead"), Role: "ops_manager"},
	}}
	svc := NewAuthService(repo, nil, nil)
	ctx, store := withStore(nil)

	sess, err := svc.Login(ctx, models.LoginRequest{Email: " ops@zenops.in ", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "abc", sess.Token)

	stored, ok := store.Current(ctx)
	require.True(t, ok)
	assert.Equal(t, "ops@zenops.in", stored.Email)
	assert.Equal(t, models.RoleOpsManager, models.NormalizeRole(stored.Role))
}

func TestLoginValidation(t *testing.T) {
	repo := &fakeAuthRepo{}
	svc := NewAuthService(repo, nil, nil)
	ctx, _ := withStore(nil)

	_, err := svc.Login(ctx, models.LoginRequest{Email: "", Password: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Zero(t, repo.loginCalls)
}

func TestLoginMapsUnauthorized(t *testing.T) {
	repo := &fakeAuthRepo{loginErr: appErrors.Unauthorized("Incorrect email or password")}
	svc := NewAuthService(repo, nil, nil)
	ctx, store := withStore(nil)

	_, err := svc.Login(ctx, models.LoginRequest{Email: "a@b.c", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, "invalid email or password", appErrors.FromError(err).Message)
	_, ok := store.Current(ctx)
	assert.False(t, ok)
}

func TestLoginRequiresStoreInContext(t *testing.T) {
	svc := NewAuthService(&fakeAuthRepo{}, nil, nil)
	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "a@b.c", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, 500, appErrors.StatusOf(err))
}

func TestLogoutClearsAndIsIdempotent(t *testing.T) {
	svc := NewAuthService(&fakeAuthRepo{}, nil, nil)
	ctx, store := withStore(&models.Session{Email: "a@b.c", Token: "t"})

	require.NoError(t, svc.Logout(ctx))
	_, ok := store.Current(ctx)
	assert.False(t, ok)
	require.NoError(t, svc.Logout(ctx))
}

func TestCurrentReportsTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "a@b.c", "exp": exp.Unix()}).SignedString([]byte("k"))
	require.NoError(t, err)

	svc := NewAuthService(&fakeAuthRepo{}, nil, nil)
	svc.now = func() time.Time { return exp.Add(time.Minute) }
	ctx, _ := withStore(&models.Session{Email: "a@b.c", Token: token, Role: "ADMIN"})

	info, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.True(t, info.IsAdmin)
	require.NotNil(t, info.ExpiresAt)
	assert.True(t, info.ExpiresAt.Equal(exp))
	assert.True(t, info.Expired)
}

func TestCurrentWithoutSession(t *testing.T) {
	svc := NewAuthService(&fakeAuthRepo{}, nil, nil)
	ctx, _ := withStore(nil)
	_, err := svc.Current(ctx)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestChangePasswordValidation(t *testing.T) {
	repo := &fakeAuthRepo{}
	svc := NewAuthService(repo, nil, nil)

	err := svc.ChangePassword(context.Background(), models.ChangePasswordRequest{CurrentPassword: "old", NewPassword: "12345", ConfirmPassword: "12345"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	err = svc.ChangePassword(context.Background(), models.ChangePasswordRequest{CurrentPassword: "old", NewPassword: "123456", ConfirmPassword: "123457"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	err = svc.ChangePassword(context.Background(), models.ChangePasswordRequest{CurrentPassword: "old", NewPassword: "123456", ConfirmPassword: "123456"})
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"old", "123456"}}, repo.changed)
}
