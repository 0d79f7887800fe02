package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/models"
	"github.com/zenops/zen-ops-console/internal/service"
	"github.com/zenops/zen-ops-console/pkg/response"
)

type shellService interface {
	Shell(sess *models.Session) dto.ShellResponse
}

// ShellHandler serves the layout chrome: user badge and sidebar.
type ShellHandler struct {
	service shellService
}

// NewShellHandler constructs the handler.
func NewShellHandler(svc shellService) *ShellHandler {
	return &ShellHandler{service: svc}
}

// Shell godoc
// @Summary Sidebar and user badge
// @Description Works for anonymous visitors too; admin-only entries are hidden from everyone else.
// @Tags Shell
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /shell [get]
func (h *ShellHandler) Shell(c *gin.Context) {
	sess, _ := service.Actor(c.Request.Context())
	shell := h.service.Shell(sess)
	shell.User = publicSession(shell.User)
	response.JSON(c, http.StatusOK, shell, nil)
}
