package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/zenops/zen-ops-console/internal/assignmentlist"
	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/middleware"
	"github.com/zenops/zen-ops-console/internal/models"
	"github.com/zenops/zen-ops-console/internal/service"
	"github.com/zenops/zen-ops-console/internal/session"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Meta  map[string]interface{} `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var env responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func testContext(method, target string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var req = httptest.NewRequest(method, target, nil)
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, rec
}

func withUser(c *gin.Context, sess *models.Session) {
	store := session.NewKVStore(session.NewMemoryKV(), nil)
	if sess != nil {
		_ = store.Set(context.Background(), *sess)
		c.Set(middleware.ContextUserKey, sess)
	}
	c.Request = c.Request.WithContext(session.WithStore(c.Request.Context(), store))
}

var (
	adminUser = &models.Session{ID: 1, Email: "admin@zenops.in", Role: "ADMIN", Token: "secret-token"}
	staffUser = &models.Session{ID: 2, Email: "field@zenops.in", Role: "FIELD_VALUER", Token: "secret-token"}
)

type fakeAuthSrv struct {
	loginSess  *models.Session
	loginErr   error
	logouts    int
	info       *service.SessionInfo
	currentErr error
	changed    []models.ChangePasswordRequest
}

func (f *fakeAuthSrv) Login(context.Context, models.LoginRequest) (*models.Session, error) {
	return f.loginSess, f.loginErr
}

func (f *fakeAuthSrv) Logout(context.Context) error {
	f.logouts++
	return nil
}

func (f *fakeAuthSrv) Current(context.Context) (*service.SessionInfo, error) {
	return f.info, f.currentErr
}

func (f *fakeAuthSrv) ChangePassword(_ context.Context, req models.ChangePasswordRequest) error {
	f.changed = append(f.changed, req)
	return nil
}

type fakeProfiles struct {
	me   *models.User
	caps map[string]bool
}

func (f *fakeProfiles) Me(context.Context) (*models.User, error) { return f.me, nil }

func (f *fakeProfiles) Capabilities(context.Context, *models.Session) (map[string]bool, error) {
	return f.caps, nil
}

type fakeTeardown struct {
	sids   []string
	resets []string
}

func (f *fakeTeardown) Logout(sid string) error {
	f.sids = append(f.sids, sid)
	return nil
}

func (f *fakeTeardown) ResetLists(sid string) int {
	f.resets = append(f.resets, sid)
	return 1
}

type fakeRegistry struct {
	view     assignmentlist.View
	err      error
	sid      string
	scope    service.ListScope
	wait     time.Duration
	actions  []dto.ListActionRequest
	snapshot int
}

func (f *fakeRegistry) Snapshot(_ context.Context, sid string, scope service.ListScope, wait time.Duration) (assignmentlist.View, error) {
	f.snapshot++
	f.sid, f.scope, f.wait = sid, scope, wait
	return f.view, f.err
}

func (f *fakeRegistry) Apply(_ context.Context, sid string, scope service.ListScope, action dto.ListActionRequest) (assignmentlist.View, error) {
	f.sid, f.scope = sid, scope
	f.actions = append(f.actions, action)
	return f.view, f.err
}

func ginParam(key, value string) gin.Param {
	return gin.Param{Key: key, Value: value}
}
