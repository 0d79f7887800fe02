package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/models"
	"github.com/zenops/zen-ops-console/pkg/response"
)

type accountPages interface {
	Account(ctx context.Context, actor *models.Session) (*dto.AccountResponse, error)
	Workload(ctx context.Context) (*dto.WorkloadResponse, error)
	Dashboard(ctx context.Context, actor *models.Session) (*dto.DashboardResponse, error)
}

// DashboardHandler serves the account, workload and admin dashboard pages.
type DashboardHandler struct {
	service accountPages
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service accountPages) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Account godoc
// @Summary Account page
// @Description Profile, capabilities and the assignment summary; a failed summary is reported in summary_error
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /account [get]
func (h *DashboardHandler) Account(c *gin.Context) {
	sess, ok := currentUser(c)
	if !ok {
		return
	}
	resp, err := h.service.Account(c.Request.Context(), sess)
	reply(c, http.StatusOK, resp, err)
}

// Workload godoc
// @Summary Global workload counts
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /workload [get]
func (h *DashboardHandler) Workload(c *gin.Context) {
	resp, err := h.service.Workload(c.Request.Context())
	reply(c, http.StatusOK, resp, err)
}

// Dashboard godoc
// @Summary Admin dashboard
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	sess, ok := currentUser(c)
	if !ok {
		return
	}
	resp, err := h.service.Dashboard(c.Request.Context(), sess)
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := map[string]interface{}{"degraded": resp.CapabilitiesError != "" || resp.UsersError != ""}
	response.JSON(c, http.StatusOK, resp, nil, meta)
}
