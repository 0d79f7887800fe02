package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/models"
)

type userAdminService interface {
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, actor *models.Session, req dto.CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, actor *models.Session, id int, req dto.UpdateUserRequest) (*models.User, error)
	SetActive(ctx context.Context, actor *models.Session, id int, req dto.ToggleActiveRequest) (*models.User, error)
	ResetPassword(ctx context.Context, actor *models.Session, id int, req dto.ResetPasswordRequest) (*dto.ResetPasswordResponse, error)
}

// UserHandler handles staff account administration.
type UserHandler struct {
	service userAdminService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc userAdminService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	reply(c, http.StatusOK, users, err)
}

// Create godoc
// @Summary Create user
// @Tags Users
// @Accept json
// @Param payload body dto.CreateUserRequest true "User"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	sess, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CreateUserRequest
	if !bindJSON(c, &req, "invalid user payload") {
		return
	}
	user, err := h.service.Create(c.Request.Context(), sess, req)
	reply(c, http.StatusCreated, user, err)
}

// Update godoc
// @Summary Rename user or change role
// @Tags Users
// @Accept json
// @Param id path int true "User ID"
// @Param payload body dto.UpdateUserRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Router /users/{id} [patch]
func (h *UserHandler) Update(c *gin.Context) {
	sess, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req, "invalid user payload") {
		return
	}
	user, err := h.service.Update(c.Request.Context(), sess, id, req)
	reply(c, http.StatusOK, user, err)
}

// ToggleActive godoc
// @Summary Activate or deactivate user
// @Tags Users
// @Accept json
// @Param id path int true "User ID"
// @Param payload body dto.ToggleActiveRequest true "State"
// @Success 200 {object} response.Envelope
// @Router /users/{id}/toggle-active [post]
func (h *UserHandler) ToggleActive(c *gin.Context) {
	sess, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ToggleActiveRequest
	if !bindJSON(c, &req, "invalid payload") {
		return
	}
	user, err := h.service.SetActive(c.Request.Context(), sess, id, req)
	reply(c, http.StatusOK, user, err)
}

// ResetPassword godoc
// @Summary Reset another user's password
// @Tags Users
// @Accept json
// @Param id path int true "User ID"
// @Param payload body dto.ResetPasswordRequest true "Password"
// @Success 200 {object} response.Envelope
// @Router /users/{id}/reset-password [post]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	sess, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ResetPasswordRequest
	if !bindJSON(c, &req, "invalid payload") {
		return
	}
	ack, err := h.service.ResetPassword(c.Request.Context(), sess, id, req)
	reply(c, http.StatusOK, ack, err)
}
