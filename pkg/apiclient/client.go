package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zenops/zen-ops-console/internal/models"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
	"github.com/zenops/zen-ops-console/pkg/middleware/requestid"
)

const (
	headerAccept      = "Accept"
	headerContentType = "Content-Type"
	headerAuth        = "Authorization"
	headerUserEmail   = "X-User-Email"
	mimeJSON          = "application/json"

	maxErrorBody = 64 << 10
)

// DefaultSlashPaths are collection paths the backend only serves with a trailing slash.
var DefaultSlashPaths = []string{"/api/assignments"}

var idSegment = regexp.MustCompile(`/\d+(/|$)`)

// SessionSource supplies credentials and is cleared when the backend answers 401.
type SessionSource interface {
	Current(ctx context.Context) (*models.Session, bool)
	Clear(ctx context.Context) error
}

// Observer records one upstream call.
type Observer interface {
	ObserveUpstreamRequest(method, path string, status int, duration time.Duration)
}

// Config configures the client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	SlashPaths []string
	HTTPClient *http.Client
	Logger     *zap.Logger
	Metrics    Observer
}

// Client issues authenticated requests against the Zen Ops backend.
type Client struct {
	baseURL  string
	http     *http.Client
	slash    map[string]struct{}
	sessions SessionSource
	logger   *zap.Logger
	metrics  Observer
}

// New builds a client bound to sessions.
func New(cfg Config, sessions SessionSource) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	paths := cfg.SlashPaths
	if len(paths) == 0 {
		paths = DefaultSlashPaths
	}
	slash := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		slash[strings.TrimRight(p, "/")] = struct{}{}
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     httpClient,
		slash:    slash,
		sessions: sessions,
		logger:   logger,
		metrics:  cfg.Metrics,
	}
}

// WithSessions returns a copy of the client that reads credentials from sessions.
func (c *Client) WithSessions(sessions SessionSource) *Client {
	clone := *c
	clone.sessions = sessions
	return &clone
}

// Do sends a request and returns the raw response for every status except 401.
// On 401 the session is cleared and an UNAUTHORIZED error is returned.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader, header http.Header) (*http.Response, error) {
	target := c.baseURL + c.rewritePath(path)
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build upstream request")
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	c.decorate(ctx, req, body != nil)

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	metricPath := NormalizePath(path)

	if err != nil {
		c.observe(method, metricPath, http.StatusBadGateway, duration)
		c.logger.Debug("upstream transport error", zap.String("method", method), zap.String("path", metricPath), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, appErrors.ErrUpstreamUnavailable.Message)
	}

	c.observe(method, metricPath, resp.StatusCode, duration)
	c.logger.Debug("upstream call",
		zap.String("method", method),
		zap.String("path", metricPath),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", duration),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		detail := ErrorText(resp)
		if c.sessions != nil {
			if clearErr := c.sessions.Clear(ctx); clearErr != nil {
				c.logger.Warn("clear session after 401", zap.Error(clearErr))
			}
		}
		return nil, appErrors.Unauthorized(detail)
	}
	return resp, nil
}

// GetJSON issues a GET and decodes a 2xx body into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.SendJSON(ctx, http.MethodGet, path, nil, out)
}

// SendJSON encodes in (when non-nil), sends it and decodes a 2xx body into out (when non-nil).
// Non-2xx answers become UPSTREAM_ERROR with the backend status and detail.
func (c *Client) SendJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode request body")
		}
		body = bytes.NewReader(payload)
	}

	resp, err := c.Do(ctx, method, path, body, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return appErrors.Upstream(resp.StatusCode, ErrorText(resp))
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "decode upstream response")
	}
	return nil
}

func (c *Client) decorate(ctx context.Context, req *http.Request, hasBody bool) {
	req.Header.Set(headerAccept, mimeJSON)
	req.Header.Del(headerAuth)
	req.Header.Del(headerUserEmail)

	if c.sessions != nil {
		if sess, ok := c.sessions.Current(ctx); ok {
			switch {
			case sess.Token != "":
				req.Header.Set(headerAuth, "Bearer "+sess.Token)
			case sess.Email != "":
				req.Header.Set(headerUserEmail, sess.Email)
			}
		}
	}

	if hasBody && req.Header.Get(headerContentType) == "" {
		req.Header.Set(headerContentType, mimeJSON)
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.HeaderKey, id)
	}
}

func (c *Client) observe(method, path string, status int, d time.Duration) {
	if c.metrics != nil {
		c.metrics.ObserveUpstreamRequest(method, path, status, d)
	}
}

// rewritePath appends a trailing slash to known collection paths, keeping the query.
func (c *Client) rewritePath(path string) string {
	base, query, hasQuery := strings.Cut(path, "?")
	if _, ok := c.slash[base]; ok {
		base += "/"
	}
	if hasQuery {
		return base + "?" + query
	}
	return base
}

// NormalizePath drops the query and replaces numeric segments with :id for metric labels.
func NormalizePath(path string) string {
	base, _, _ := strings.Cut(path, "?")
	for idSegment.MatchString(base) {
		base = idSegment.ReplaceAllString(base, "/:id$1")
	}
	return strings.TrimRight(base, "/")
}

// ErrorText extracts the backend error message: the JSON detail when present, else
// the trimmed body, else "HTTP <status>". The body is consumed.
func ErrorText(resp *http.Response) string {
	if resp == nil {
		return ""
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	text := strings.TrimSpace(string(raw))
	if detail := detailFromJSON(raw); detail != "" {
		return detail
	}
	if text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}

func detailFromJSON(raw []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		return strings.TrimSpace(detail)
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return strings.TrimSpace(string(envelope.Detail))
}
