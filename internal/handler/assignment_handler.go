package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/models"
	"github.com/zenops/zen-ops-console/pkg/response"
)

type assignmentService interface {
	Detail(ctx context.Context, id int) (*models.AssignmentDetail, error)
	Activity(ctx context.Context, id int) ([]dto.ActivityEntry, error)
	Create(ctx context.Context, actor *models.Session, req dto.AssignmentRequest) (*models.Assignment, error)
	Update(ctx context.Context, actor *models.Session, id int, edit dto.AssignmentEdit) (*models.Assignment, error)
}

// AssignmentHandler exposes single-assignment endpoints.
type AssignmentHandler struct {
	service assignmentService
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(svc assignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// Detail godoc
// @Summary Assignment with its attached files
// @Tags Assignments
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Detail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.service.Detail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Activity godoc
// @Summary Assignment activity timeline
// @Tags Assignments
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /assignments/{id}/activity [get]
func (h *AssignmentHandler) Activity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entries, err := h.service.Activity(c.Request.Context(), id)
	reply(c, http.StatusOK, entries, err)
}

// Create godoc
// @Summary Create an assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.AssignmentRequest true "Assignment"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	sess, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.AssignmentRequest
	if !bindJSON(c, &req, "invalid assignment payload") {
		return
	}
	created, err := h.service.Create(c.Request.Context(), sess, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Update godoc
// @Summary Edit an assignment
// @Description Only fields that differ from the stored assignment are sent to the backend.
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Param payload body dto.AssignmentEdit true "Edits"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /assignments/{id} [patch]
func (h *AssignmentHandler) Update(c *gin.Context) {
	sess, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var edit dto.AssignmentEdit
	if !bindJSON(c, &edit, "invalid assignment payload") {
		return
	}
	updated, err := h.service.Update(c.Request.Context(), sess, id, edit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}
