package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zenops/zen-ops-console/internal/dto"
)

type overviewService interface {
	BankOverview(ctx context.Context, bankID int) (*dto.BankOverviewResponse, error)
	Home(ctx context.Context) (*dto.HomeResponse, error)
}

// OverviewHandler serves the banks page and the home dashboard.
type OverviewHandler struct {
	service overviewService
}

// NewOverviewHandler constructs the handler.
func NewOverviewHandler(svc overviewService) *OverviewHandler {
	return &OverviewHandler{service: svc}
}

// BankOverview godoc
// @Summary Bank with per-branch assignment counts
// @Description Summaries that fail to load are null
// @Tags Master Data
// @Produce json
// @Param id path int true "Bank ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /banks/{id}/overview [get]
func (h *OverviewHandler) BankOverview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.BankOverview(c.Request.Context(), id)
	reply(c, http.StatusOK, resp, err)
}

// Home godoc
// @Summary Home dashboard
// @Description Status counts and fee totals over the most recent assignments
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /home [get]
func (h *OverviewHandler) Home(c *gin.Context) {
	resp, err := h.service.Home(c.Request.Context())
	reply(c, http.StatusOK, resp, err)
}
