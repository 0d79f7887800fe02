package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zenops/zen-ops-console/internal/models"
)

type redisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// HealthConfig points the probes at their targets.
type HealthConfig struct {
	BackendURL string
	Timeout    time.Duration
}

// HealthService probes the backend API and the session store.
type HealthService struct {
	cfg     HealthConfig
	redis   redisPinger
	metrics *MetricsService
	client  *http.Client
}

// NewHealthService constructs a HealthService. redis may be nil when sessions live in memory.
func NewHealthService(cfg HealthConfig, redis redisPinger, metrics *MetricsService) *HealthService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthService{
		cfg:     cfg,
		redis:   redis,
		metrics: metrics,
		client:  &http.Client{Timeout: timeout},
	}
}

// Ready runs every probe; the gateway is ready only when all of them pass.
func (s *HealthService) Ready(ctx context.Context) models.Readiness {
	backend, _ := s.PingBackend(ctx)
	out := models.Readiness{Ready: backend.Reachable, Checks: []models.PingResult{backend}}
	if s.redis != nil {
		store := s.PingSessionStore(ctx)
		out.Checks = append(out.Checks, store)
		out.Ready = out.Ready && store.Reachable
	}
	return out
}

// PingBackend probes GET /api/health without credentials.
func (s *HealthService) PingBackend(ctx context.Context) (models.PingResult, error) {
	result := models.PingResult{Target: "backend", ObservedAt: time.Now().UTC()}
	base := strings.TrimRight(s.cfg.BackendURL, "/")
	if base == "" {
		err := errors.New("backend URL not configured")
		result.Error = err.Error()
		return result, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/api/health", nil)
	if err != nil {
		result.Error = err.Error()
		return result, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	result.Duration = time.Since(start)

	statusCode := http.StatusServiceUnavailable
	if err != nil {
		result.Error = err.Error()
	} else {
		defer resp.Body.Close()
		statusCode = resp.StatusCode
		result.StatusCode = resp.StatusCode
		var body struct {
			Status string `json:"status"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &body) == nil {
			result.Status = body.Status
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			result.Error = fmt.Sprintf("received status %d", resp.StatusCode)
			err = fmt.Errorf("backend health check failed: %s", result.Error)
		}
		result.Reachable = resp.StatusCode < http.StatusInternalServerError
	}

	s.metrics.ObserveUpstreamRequest(http.MethodGet, "/api/health", statusCode, result.Duration)
	return result, err
}

// PingSessionStore probes Redis.
func (s *HealthService) PingSessionStore(ctx context.Context) models.PingResult {
	result := models.PingResult{Target: "session_store", ObservedAt: time.Now().UTC()}
	start := time.Now()
	err := s.redis.Ping(ctx).Err()
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Reachable = true
	result.Status = "ok"
	return result
}
