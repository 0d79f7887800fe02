package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/models"
	"github.com/zenops/zen-ops-console/internal/service"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
)

type fakeAssignmentSrv struct {
	created []dto.AssignmentRequest
	updates map[int]dto.AssignmentEdit
	err     error
}

func (f *fakeAssignmentSrv) Detail(_ context.Context, id int) (*models.AssignmentDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.AssignmentDetail{Assignment: models.Assignment{ID: id}}, nil
}

func (f *fakeAssignmentSrv) Activity(_ context.Context, id int) ([]dto.ActivityEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []dto.ActivityEntry{{Activity: models.Activity{ID: 1, Type: "STATUS_CHANGED"}, Title: "Status changed"}}, nil
}

func (f *fakeAssignmentSrv) Create(_ context.Context, _ *models.Session, req dto.AssignmentRequest) (*models.Assignment, error) {
	f.created = append(f.created, req)
	return &models.Assignment{ID: 77, CaseType: models.CaseType(req.CaseType)}, nil
}

func (f *fakeAssignmentSrv) Update(_ context.Context, _ *models.Session, id int, edit dto.AssignmentEdit) (*models.Assignment, error) {
	if f.updates == nil {
		f.updates = map[int]dto.AssignmentEdit{}
	}
	f.updates[id] = edit
	return &models.Assignment{ID: id}, f.err
}

type fakeUserSrv struct {
	toggled map[int]bool
	err     error
}

func (f *fakeUserSrv) List(context.Context) ([]models.User, error) {
	return []models.User{{ID: 1, Email: "admin@zenops.in"}}, nil
}

func (f *fakeUserSrv) Create(_ context.Context, _ *models.Session, req dto.CreateUserRequest) (*models.User, error) {
	return &models.User{ID: 9, Email: req.Email}, f.err
}

func (f *fakeUserSrv) Update(_ context.Context, _ *models.Session, id int, _ dto.UpdateUserRequest) (*models.User, error) {
	return &models.User{ID: id}, f.err
}

func (f *fakeUserSrv) SetActive(_ context.Context, _ *models.Session, id int, req dto.ToggleActiveRequest) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.toggled == nil {
		f.toggled = map[int]bool{}
	}
	f.toggled[id] = *req.IsActive
	return &models.User{ID: id, IsActive: *req.IsActive}, nil
}

func (f *fakeUserSrv) ResetPassword(_ context.Context, _ *models.Session, id int, _ dto.ResetPasswordRequest) (*dto.ResetPasswordResponse, error) {
	return &dto.ResetPasswordResponse{OK: true, UserID: id}, f.err
}

type fakePages struct {
	dashboard *dto.DashboardResponse
	err       error
}

func (f *fakePages) Account(context.Context, *models.Session) (*dto.AccountResponse, error) {
	return &dto.AccountResponse{}, f.err
}

func (f *fakePages) Workload(context.Context) (*dto.WorkloadResponse, error) {
	return &dto.WorkloadResponse{}, f.err
}

func (f *fakePages) Dashboard(context.Context, *models.Session) (*dto.DashboardResponse, error) {
	return f.dashboard, f.err
}

type fakeReadiness struct{ ready bool }

func (f fakeReadiness) Ready(context.Context) models.Readiness {
	return models.Readiness{Ready: f.ready, Checks: []models.PingResult{{Target: "backend", Reachable: f.ready}}}
}

func TestCreateAssignmentRequiresUser(t *testing.T) {
	svc := &fakeAssignmentSrv{}
	h := NewAssignmentHandler(svc)

	c, rec := testContext(http.MethodPost, "/console/assignments", `{"case_type":"BANK"}`)
	h.Create(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, svc.created)

	c, rec = testContext(http.MethodPost, "/console/assignments", `{"case_type":"BANK","bank_id":3,"branch_id":7}`)
	withUser(c, staffUser)
	h.Create(c)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, svc.created, 1)
	assert.Equal(t, 3, *svc.created[0].BankID)
}

func TestAssignmentDetailRejectsBadID(t *testing.T) {
	h := NewAssignmentHandler(&fakeAssignmentSrv{})
	c, rec := testContext(http.MethodGet, "/console/assignments/abc", "")
	c.Params = append(c.Params, ginParam("id", "abc"))
	h.Detail(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssignmentDetailNotFound(t *testing.T) {
	h := NewAssignmentHandler(&fakeAssignmentSrv{err: appErrors.Upstream(http.StatusNotFound, "Assignment not found")})
	c, rec := testContext(http.MethodGet, "/console/assignments/5", "")
	c.Params = append(c.Params, ginParam("id", "5"))
	h.Detail(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Assignment not found", decode(t, rec).Error.Message)
}

func TestUpdateAssignmentPassesEdit(t *testing.T) {
	svc := &fakeAssignmentSrv{}
	h := NewAssignmentHandler(svc)
	c, rec := testContext(http.MethodPatch, "/console/assignments/4", `{"status":"COMPLETED"}`)
	c.Params = append(c.Params, ginParam("id", "4"))
	withUser(c, adminUser)
	h.Update(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "COMPLETED", *svc.updates[4].Status)
}

func TestToggleActive(t *testing.T) {
	svc := &fakeUserSrv{}
	h := NewUserHandler(svc)

	c, rec := testContext(http.MethodPost, "/console/users/5/toggle-active", `{"is_active":false}`)
	c.Params = append(c.Params, ginParam("id", "5"))
	withUser(c, adminUser)
	h.ToggleActive(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[int]bool{5: false}, svc.toggled)
}

func TestToggleActiveForbidden(t *testing.T) {
	h := NewUserHandler(&fakeUserSrv{err: appErrors.Clone(appErrors.ErrForbidden, "you cannot deactivate yourself")})
	c, rec := testContext(http.MethodPost, "/console/users/1/toggle-active", `{"is_active":false}`)
	c.Params = append(c.Params, ginParam("id", "1"))
	withUser(c, adminUser)
	h.ToggleActive(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDashboardFlagsDegradedSections(t *testing.T) {
	pages := &fakePages{dashboard: &dto.DashboardResponse{Role: "ADMIN", UsersError: "HTTP 500"}}
	h := NewDashboardHandler(pages)

	c, rec := testContext(http.MethodGet, "/console/dashboard", "")
	withUser(c, adminUser)
	h.Dashboard(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec).Meta["degraded"])
}

func TestWorkloadUpstreamFailure(t *testing.T) {
	h := NewDashboardHandler(&fakePages{err: appErrors.ErrUpstreamUnavailable})
	c, rec := testContext(http.MethodGet, "/console/workload", "")
	h.Workload(c)
	assert.Equal(t, appErrors.ErrUpstreamUnavailable.Status, rec.Code)
}

func TestShellForAnonymousAndAdmin(t *testing.T) {
	h := NewShellHandler(service.NewShellService())

	c, rec := testContext(http.MethodGet, "/console/shell", "")
	h.Shell(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Invoices / Finance")

	c, rec = testContext(http.MethodGet, "/console/shell", "")
	withUser(c, adminUser)
	h.Shell(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_admin":true`)
	assert.NotContains(t, rec.Body.String(), "secret-token")
}

func TestReadyReflectsProbes(t *testing.T) {
	h := NewMetricsHandler(service.NewMetricsService(), fakeReadiness{ready: false})
	c, rec := testContext(http.MethodGet, "/ready", "")
	h.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h = NewMetricsHandler(service.NewMetricsService(), fakeReadiness{ready: true})
	c, rec = testContext(http.MethodGet, "/ready", "")
	h.Ready(c)
	assert.Equal(t, http.StatusOK, rec.Code)
}
