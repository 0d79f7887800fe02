package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zenops/zen-ops-console/internal/assignmentlist"
	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/middleware"
	"github.com/zenops/zen-ops-console/internal/service"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
	"github.com/zenops/zen-ops-console/pkg/export"
	"github.com/zenops/zen-ops-console/pkg/response"
)

const defaultSnapshotWait = 2 * time.Second

type listRegistry interface {
	Snapshot(ctx context.Context, sid string, scope service.ListScope, wait time.Duration) (assignmentlist.View, error)
	Apply(ctx context.Context, sid string, scope service.ListScope, action dto.ListActionRequest) (assignmentlist.View, error)
}

type listExporter interface {
	Export(view assignmentlist.View, format string) (*service.ExportFile, error)
}

// ListHandler serves the stateful assignment tables: global, per bank and per branch.
type ListHandler struct {
	registry listRegistry
	exporter listExporter
}

// NewListHandler constructs the handler.
func NewListHandler(registry listRegistry, exporter listExporter) *ListHandler {
	return &ListHandler{registry: registry, exporter: exporter}
}

func (h *ListHandler) scope(c *gin.Context) (service.ListScope, bool) {
	scope, err := service.ParseListScope(c.Query("scope"), c.Query("id"))
	if err != nil {
		response.Error(c, err)
		return service.ListScope{}, false
	}
	return scope, true
}

// Snapshot godoc
// @Summary Current state of an assignments table
// @Description Loads the table on first use and waits up to wait_ms for in-flight fetches.
// @Tags Lists
// @Produce json
// @Param scope query string false "all, bank or branch"
// @Param id query int false "Bank or branch id"
// @Param wait_ms query int false "Milliseconds to wait for fetches"
// @Success 200 {object} response.Envelope
// @Router /lists [get]
func (h *ListHandler) Snapshot(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	var q dto.ListSnapshotQuery
	if err := c.ShouldBindQuery(&q); err != nil || q.WaitMS < 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid wait_ms"))
		return
	}
	wait := defaultSnapshotWait
	if c.Query("wait_ms") != "" {
		wait = time.Duration(q.WaitMS) * time.Millisecond
	}
	view, err := h.registry.Snapshot(c.Request.Context(), middleware.SessionID(c), scope, wait)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, view)
}

// Action godoc
// @Summary Apply a table interaction
// @Description sort, next, prev, filters, page_size, refresh or compact
// @Tags Lists
// @Accept json
// @Produce json
// @Param scope query string false "all, bank or branch"
// @Param id query int false "Bank or branch id"
// @Param payload body dto.ListActionRequest true "Action"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /lists/actions [post]
func (h *ListHandler) Action(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	var req dto.ListActionRequest
	if !bindJSON(c, &req, "invalid list action") {
		return
	}
	view, err := h.registry.Apply(c.Request.Context(), middleware.SessionID(c), scope, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, view)
}

// Export godoc
// @Summary Export the visible page of a table
// @Tags Lists
// @Produce octet-stream
// @Param scope query string false "all, bank or branch"
// @Param id query int false "Bank or branch id"
// @Param format query string false "csv, pdf or xlsx"
// @Success 200 {file} file
// @Router /lists/export [get]
func (h *ListHandler) Export(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error()))
		return
	}
	view, err := h.registry.Snapshot(c.Request.Context(), middleware.SessionID(c), scope, defaultSnapshotWait)
	if err != nil {
		response.Error(c, err)
		return
	}
	if view.ListState == assignmentlist.StateFailed {
		response.Error(c, appErrors.Clone(appErrors.ErrUpstream, view.Error))
		return
	}
	file, err := h.exporter.Export(view, string(format))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Data)
}

func (h *ListHandler) respond(c *gin.Context, view assignmentlist.View) {
	response.JSON(c, http.StatusOK, view, nil, map[string]interface{}{"loading": view.Loading()})
}
