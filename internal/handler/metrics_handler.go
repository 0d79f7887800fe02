package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zenops/zen-ops-console/internal/models"
	"github.com/zenops/zen-ops-console/internal/service"
	"github.com/zenops/zen-ops-console/pkg/response"
)

type readinessService interface {
	Ready(ctx context.Context) models.Readiness
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	health  readinessService
}

// NewMetricsHandler constructs a metrics handler. health may be nil.
func NewMetricsHandler(metrics *service.MetricsService, health readinessService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, health: health}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports 200 when the backend API and the session store answer, 503 otherwise.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.health == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false})
		return
	}
	readiness := h.health.Ready(c.Request.Context())
	status := http.StatusOK
	if !readiness.Ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, readiness)
}

// Snapshot godoc
// @Summary Gateway metrics summary
// @Tags System
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /system/metrics [get]
func (h *MetricsHandler) Snapshot(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}
