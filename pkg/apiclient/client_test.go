package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenops/zen-ops-console/internal/models"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
	"github.com/zenops/zen-ops-console/pkg/middleware/requestid"
)

type fakeSessions struct {
	mu      sync.Mutex
	current *models.Session
	cleared int
}

func (f *fakeSessions) Current(context.Context) (*models.Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return nil, false
	}
	cp := *f.current
	return &cp, true
}

func (f *fakeSessions) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = nil
	f.cleared++
	return nil
}

type recordedCall struct {
	method string
	path   string
	status int
}

type fakeObserver struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (f *fakeObserver) ObserveUpstreamRequest(method, path string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedCall{method: method, path: path, status: status})
}

type capture struct {
	mu      sync.Mutex
	headers http.Header
	uri     string
	body    string
}

func newServer(t *testing.T, status int, body string, c *capture) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if c != nil {
			c.mu.Lock()
			c.headers = r.Header.Clone()
			c.uri = r.URL.RequestURI()
			c.body = string(raw)
			c.mu.Unlock()
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDoSendsBearerTokenOnly(t *testing.T) {
	c := &capture{}
	server := newServer(t, http.StatusOK, `[]`, c)
	sessions := &fakeSessions{current: &models.Session{Email: "ops@zen.ops", Token: "tok-1"}}
	client := New(Config{BaseURL: server.URL}, sessions)

	resp, err := client.Do(context.Background(), http.MethodGet, "/api/master/banks", nil, nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer tok-1", c.headers.Get("Authorization"))
	assert.Empty(t, c.headers.Get("X-User-Email"))
	assert.Equal(t, "application/json", c.headers.Get("Accept"))
	assert.Empty(t, c.headers.Get("Content-Type"))
}

func TestDoFallsBackToEmailHeader(t *testing.T) {
	c := &capture{}
	server := newServer(t, http.StatusOK, `{}`, c)
	sessions := &fakeSessions{current: &models.Session{Email: "ops@zen.ops"}}
	client := New(Config{BaseURL: server.URL}, sessions)

	resp, err := client.Do(context.Background(), http.MethodGet, "/api/auth/me", nil, nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "ops@zen.ops", c.headers.Get("X-User-Email"))
	assert.Empty(t, c.headers.Get("Authorization"))
}

func TestDoWithoutSessionSendsNoIdentity(t *testing.T) {
	c := &capture{}
	server := newServer(t, http.StatusOK, `{}`, c)
	client := New(Config{BaseURL: server.URL}, &fakeSessions{})

	resp, err := client.Do(context.Background(), http.MethodGet, "/api/health", nil, nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, c.headers.Get("Authorization"))
	assert.Empty(t, c.headers.Get("X-User-Email"))
}

func TestDoDefaultsContentTypeForBody(t *testing.T) {
	c := &capture{}
	server := newServer(t, http.StatusOK, `{}`, c)
	client := New(Config{BaseURL: server.URL}, nil)

	resp, err := client.Do(context.Background(), http.MethodPost, "/api/master/banks", strings.NewReader(`{"name":"SBI"}`), nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "application/json", c.headers.Get("Content-Type"))
	assert.JSONEq(t, `{"name":"SBI"}`, c.body)

	header := http.Header{}
	header.Set("Content-Type", "text/plain")
	resp, err = client.Do(context.Background(), http.MethodPost, "/api/master/banks", strings.NewReader("x"), header)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "text/plain", c.headers.Get("Content-Type"))
}

func TestDoRewritesKnownCollectionPaths(t *testing.T) {
	c := &capture{}
	server := newServer(t, http.StatusOK, `[]`, c)
	client := New(Config{BaseURL: server.URL}, nil)

	resp, err := client.Do(context.Background(), http.MethodGet, "/api/assignments?branch_id=7&skip=0&limit=50&sort_by=created_at&sort_dir=desc", nil, nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "/api/assignments/?branch_id=7&skip=0&limit=50&sort_by=created_at&sort_dir=desc", c.uri)

	resp, err = client.Do(context.Background(), http.MethodGet, "/api/assignments/summary?bank_id=1", nil, nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "/api/assignments/summary?bank_id=1", c.uri)
}

func TestDoPropagatesRequestID(t *testing.T) {
	c := &capture{}
	server := newServer(t, http.StatusOK, `{}`, c)
	client := New(Config{BaseURL: server.URL}, nil)

	ctx := requestid.WithContext(context.Background(), "req-42")
	resp, err := client.Do(ctx, http.MethodGet, "/api/health", nil, nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "req-42", c.headers.Get("X-Request-ID"))
}

func TestDoUnauthorizedClearsSession(t *testing.T) {
	server := newServer(t, http.StatusUnauthorized, `{"detail":"Token expired"}`, nil)
	sessions := &fakeSessions{current: &models.Session{Email: "ops@zen.ops", Token: "old"}}
	client := New(Config{BaseURL: server.URL}, sessions)

	resp, err := client.Do(context.Background(), http.MethodGet, "/api/assignments", nil, nil)
	require.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
	assert.Equal(t, "UNAUTHORIZED: Token expired", err.Error())
	assert.Equal(t, 1, sessions.cleared)

	_, ok := sessions.Current(context.Background())
	assert.False(t, ok)
}

func TestSendJSONDecodesSuccess(t *testing.T) {
	c := &capture{}
	server := newServer(t, http.StatusCreated, `{"id":5,"name":"HDFC"}`, c)
	client := New(Config{BaseURL: server.URL}, nil)

	var bank models.Bank
	err := client.SendJSON(context.Background(), http.MethodPost, "/api/master/banks", map[string]string{"name": "HDFC"}, &bank)
	require.NoError(t, err)
	assert.Equal(t, 5, bank.ID)
	assert.JSONEq(t, `{"name":"HDFC"}`, c.body)
}

func TestSendJSONErrorText(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "detail string", status: http.StatusBadRequest, body: `{"detail":"Bank already exists"}`, want: "Bank already exists"},
		{name: "validation list", status: http.StatusUnprocessableEntity, body: `{"detail":[{"msg":"field required"},{"msg":"value is not a valid integer"}]}`, want: "field required; value is not a valid integer"},
		{name: "plain text", status: http.StatusInternalServerError, body: "boom", want: "boom"},
		{name: "empty body", status: http.StatusServiceUnavailable, body: "", want: "HTTP 503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newServer(t, tt.status, tt.body, nil)
			client := New(Config{BaseURL: server.URL}, nil)

			err := client.GetJSON(context.Background(), "/api/master/banks", nil)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrUpstream.Code, appErr.Code)
			assert.Equal(t, tt.status, appErr.Status)
			assert.Equal(t, tt.want, appErr.Message)
		})
	}
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	obs := &fakeObserver{}
	client := New(Config{BaseURL: url, Metrics: obs}, nil)
	err := client.GetJSON(context.Background(), "/api/health", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUpstreamUnavailable))
	require.Len(t, obs.calls, 1)
	assert.Equal(t, http.StatusBadGateway, obs.calls[0].status)
}

func TestMetricsUseNormalizedPath(t *testing.T) {
	server := newServer(t, http.StatusOK, `{}`, nil)
	obs := &fakeObserver{}
	client := New(Config{BaseURL: server.URL, Metrics: obs}, nil)

	require.NoError(t, client.GetJSON(context.Background(), "/api/assignments/42/detail?x=1", nil))
	require.Len(t, obs.calls, 1)
	assert.Equal(t, recordedCall{method: http.MethodGet, path: "/api/assignments/:id/detail", status: http.StatusOK}, obs.calls[0])
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/api/assignments", NormalizePath("/api/assignments/?skip=0"))
	assert.Equal(t, "/api/auth/users/:id/toggle-active", NormalizePath("/api/auth/users/7/toggle-active"))
	assert.Equal(t, "/api/master/banks/:id", NormalizePath("/api/master/banks/12"))
}

func TestWithSessionsIsolatesCredentials(t *testing.T) {
	c := &capture{}
	server := newServer(t, http.StatusOK, `{}`, c)
	base := New(Config{BaseURL: server.URL}, &fakeSessions{current: &models.Session{Token: "a"}})
	other := base.WithSessions(&fakeSessions{current: &models.Session{Token: "b"}})

	resp, err := other.Do(context.Background(), http.MethodGet, "/api/auth/me", nil, nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "Bearer b", c.headers.Get("Authorization"))

	resp, err = base.Do(context.Background(), http.MethodGet, "/api/auth/me", nil, nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "Bearer a", c.headers.Get("Authorization"))
}
