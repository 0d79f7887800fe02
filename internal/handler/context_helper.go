package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zenops/zen-ops-console/internal/middleware"
	"github.com/zenops/zen-ops-console/internal/models"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
	"github.com/zenops/zen-ops-console/pkg/response"
)

func currentUser(c *gin.Context) (*models.Session, bool) {
	sess, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return sess, true
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(c.Param(name)))
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid "+name))
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message))
		return false
	}
	return true
}

// publicSession strips the access token before a session leaves the gateway.
func publicSession(s *models.Session) *models.Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Token = ""
	return &cp
}
