package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zenops/zen-ops-console/internal/middleware"
	"github.com/zenops/zen-ops-console/internal/models"
	"github.com/zenops/zen-ops-console/internal/service"
	"github.com/zenops/zen-ops-console/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.Session, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*service.SessionInfo, error)
	ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error
}

type profileService interface {
	Me(ctx context.Context) (*models.User, error)
	Capabilities(ctx context.Context, actor *models.Session) (map[string]bool, error)
}

type sessionTeardown interface {
	Logout(sid string) error
	ResetLists(sid string) int
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service    authService
	profiles   profileService
	teardown   sessionTeardown
	cookieName string
	logger     *zap.Logger
}

// NewAuthHandler creates a new handler. teardown may be nil.
func NewAuthHandler(svc authService, profiles profileService, teardown sessionTeardown, cookieName string, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{service: svc, profiles: profiles, teardown: teardown, cookieName: cookieName, logger: logger}
}

// Login godoc
// @Summary Log in to the console
// @Description Authenticates against the backend and binds the session to the browser cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req, "invalid login payload") {
		return
	}
	sess, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	// Views loaded for a previous user must not be served to this one.
	if sid := middleware.SessionID(c); sid != "" && h.teardown != nil {
		h.teardown.ResetLists(sid)
	}
	response.JSON(c, http.StatusOK, gin.H{"user": publicSession(sess), "is_admin": sess.IsAdmin()}, nil)
}

// Logout godoc
// @Summary Log out
// @Description Clears the stored session and releases the browser's list views. Idempotent.
// @Tags Authentication
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	if sid := middleware.SessionID(c); sid != "" && h.teardown != nil {
		if err := h.teardown.Logout(sid); err != nil {
			h.logger.Warn("schedule session teardown", zap.Error(err))
		}
	}
	if h.cookieName != "" {
		c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	}
	response.NoContent(c)
}

// Session godoc
// @Summary Current console session
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	info, err := h.service.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	out := *info
	out.Session = publicSession(info.Session)
	response.JSON(c, http.StatusOK, out, nil)
}

// Me godoc
// @Summary Backend profile of the logged-in user
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.profiles.Me(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Capabilities godoc
// @Summary Resolved capability flags
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/capabilities [get]
func (h *AuthHandler) Capabilities(c *gin.Context) {
	sess, ok := currentUser(c)
	if !ok {
		return
	}
	caps, err := h.profiles.Capabilities(c.Request.Context(), sess)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, caps, nil)
}

// ChangePassword godoc
// @Summary Change own password
// @Tags Authentication
// @Accept json
// @Param payload body models.ChangePasswordRequest true "Change password"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if !bindJSON(c, &req, "invalid payload") {
		return
	}
	if err := h.service.ChangePassword(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
