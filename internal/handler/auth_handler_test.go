package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenops/zen-ops-console/internal/middleware"
	"github.com/zenops/zen-ops-console/internal/models"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
)

func TestLoginStripsToken(t *testing.T) {
	svc := &fakeAuthSrv{loginSess: adminUser}
	h := NewAuthHandler(svc, &fakeProfiles{}, nil, "zenops_sid", nil)

	c, rec := testContext(http.MethodPost, "/console/auth/login", `{"email":"admin@zenops.in","password":"pw"}`)
	h.Login(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret-token")
	assert.Contains(t, rec.Body.String(), `"is_admin":true`)
}

func TestLoginResetsListViewsOfBrowserSession(t *testing.T) {
	teardown := &fakeTeardown{}
	h := NewAuthHandler(&fakeAuthSrv{loginSess: staffUser}, &fakeProfiles{}, teardown, "zenops_sid", nil)

	c, rec := testContext(http.MethodPost, "/console/auth/login", `{"email":"staff@zenops.in","password":"pw"}`)
	c.Set(middleware.ContextSessionIDKey, "sid-1")
	h.Login(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"sid-1"}, teardown.resets)
	assert.Empty(t, teardown.sids)
}

func TestFailedLoginKeepsListViews(t *testing.T) {
	teardown := &fakeTeardown{}
	svc := &fakeAuthSrv{loginErr: appErrors.Unauthorized("invalid email or password")}
	h := NewAuthHandler(svc, &fakeProfiles{}, teardown, "zenops_sid", nil)

	c, _ := testContext(http.MethodPost, "/console/auth/login", `{"email":"a@b.c","password":"x"}`)
	c.Set(middleware.ContextSessionIDKey, "sid-1")
	h.Login(c)

	assert.Empty(t, teardown.resets)
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	h := NewAuthHandler(&fakeAuthSrv{}, &fakeProfiles{}, nil, "zenops_sid", nil)
	c, rec := testContext(http.MethodPost, "/console/auth/login", `{"email":`)
	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, rec).Error.Code)
}

func TestLoginPropagatesBackendRejection(t *testing.T) {
	svc := &fakeAuthSrv{loginErr: appErrors.Unauthorized("invalid email or password")}
	h := NewAuthHandler(svc, &fakeProfiles{}, nil, "zenops_sid", nil)
	c, rec := testContext(http.MethodPost, "/console/auth/login", `{"email":"a@b.c","password":"x"}`)
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutSchedulesTeardownAndClearsCookie(t *testing.T) {
	svc := &fakeAuthSrv{}
	teardown := &fakeTeardown{}
	h := NewAuthHandler(svc, &fakeProfiles{}, teardown, "zenops_sid", nil)

	c, _ := testContext(http.MethodPost, "/console/auth/logout", "")
	c.Set(middleware.ContextSessionIDKey, "sid-1")
	h.Logout(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, 1, svc.logouts)
	assert.Equal(t, []string{"sid-1"}, teardown.sids)
	cookie := c.Writer.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(cookie, "zenops_sid=;"), cookie)
	assert.Contains(t, cookie, "Max-Age=0")
}

func TestLogoutWithoutSessionID(t *testing.T) {
	teardown := &fakeTeardown{}
	h := NewAuthHandler(&fakeAuthSrv{}, &fakeProfiles{}, teardown, "", nil)
	c, _ := testContext(http.MethodPost, "/console/auth/logout", "")
	h.Logout(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Empty(t, teardown.sids)
}

func TestSessionUnauthorized(t *testing.T) {
	h := NewAuthHandler(&fakeAuthSrv{currentErr: appErrors.ErrUnauthorized}, &fakeProfiles{}, nil, "", nil)
	c, rec := testContext(http.MethodGet, "/console/auth/session", "")
	h.Session(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCapabilitiesNeedsUser(t *testing.T) {
	profiles := &fakeProfiles{caps: map[string]bool{"view_all_assignments": true}}
	h := NewAuthHandler(&fakeAuthSrv{}, profiles, nil, "", nil)

	c, rec := testContext(http.MethodGet, "/console/auth/capabilities", "")
	h.Capabilities(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = testContext(http.MethodGet, "/console/auth/capabilities", "")
	withUser(c, staffUser)
	h.Capabilities(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"view_all_assignments":true}`, string(decode(t, rec).Data))
}

func TestChangePasswordForwardsPayload(t *testing.T) {
	svc := &fakeAuthSrv{}
	h := NewAuthHandler(svc, &fakeProfiles{}, nil, "", nil)
	c, _ := testContext(http.MethodPost, "/console/auth/change-password",
		`{"current_password":"old","new_password":"newpass","confirm_password":"newpass"}`)
	h.ChangePassword(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	require.Len(t, svc.changed, 1)
	assert.Equal(t, models.ChangePasswordRequest{CurrentPassword: "old", NewPassword: "newpass", ConfirmPassword: "newpass"}, svc.changed[0])
}
