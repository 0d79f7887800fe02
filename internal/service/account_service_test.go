package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenops/zen-ops-console/internal/models"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
)

func TestAccountCombinesProfileAndSummary(t *testing.T) {
	repo := &fakeAuthRepo{
		me:      &models.User{ID: 2, Email: "field@zenops.in", Role: models.RoleFieldValuer, IsActive: true},
		caps:    &models.Capabilities{Flags: map[string]bool{models.CapViewUsers: true}},
		summary: &models.AssignmentSummary{Total: 10, Pending: 4, Completed: 6, CompletedUnpaid: 2},
	}
	svc := NewAccountService(repo, repo, nil)

	resp, err := svc.Account(context.Background(), employee)
	require.NoError(t, err)
	assert.Equal(t, "field@zenops.in", resp.User.Email)
	assert.True(t, resp.Capabilities[models.CapViewUsers], "reported flags win over role defaults")
	assert.False(t, resp.Capabilities[models.CapCreateUsers])
	require.NotNil(t, resp.CompletedPaid)
	assert.Equal(t, 4, *resp.CompletedPaid)
	assert.Empty(t, resp.SummaryError)
}

func TestAccountToleratesSummaryFailure(t *testing.T) {
	repo := &fakeAuthRepo{
		me:         &models.User{ID: 2, Email: "field@zenops.in", Role: models.RoleFieldValuer},
		caps:       &models.Capabilities{},
		summaryErr: appErrors.Upstream(502, "summary offline"),
	}
	svc := NewAccountService(repo, repo, nil)

	resp, err := svc.Account(context.Background(), employee)
	require.NoError(t, err)
	assert.Nil(t, resp.Summary)
	assert.Nil(t, resp.CompletedPaid)
	assert.Equal(t, "summary offline", resp.SummaryError)
}

func TestAccountFailsWhenProfileFails(t *testing.T) {
	repo := &fakeAuthRepo{meErr: appErrors.Unauthorized("expired"), caps: &models.Capabilities{}, summary: &models.AssignmentSummary{}}
	svc := NewAccountService(repo, repo, nil)

	_, err := svc.Account(context.Background(), employee)
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.StatusOf(err))
}

func TestWorkloadDerivesPaidCount(t *testing.T) {
	repo := &fakeAuthRepo{summary: &models.AssignmentSummary{Total: 8, Pending: 2, Completed: 6, CompletedUnpaid: 1}}
	svc := NewAccountService(repo, repo, nil)

	resp, err := svc.Workload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, resp.CompletedPaid)

	repo.summaryErr = appErrors.Upstream(500, "boom")
	_, err = svc.Workload(context.Background())
	require.Error(t, err)
}

func TestDashboardFallsBackToRoleDefaults(t *testing.T) {
	repo := &fakeAuthRepo{capsErr: appErrors.Upstream(503, "capabilities unavailable"), users: staffDirectory()}
	svc := NewAccountService(repo, repo, nil)

	resp, err := svc.Dashboard(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, "capabilities unavailable", resp.CapabilitiesError)
	assert.True(t, resp.Capabilities[models.CapCreateUsers])
	assert.Len(t, resp.Users, 3)
	assert.Equal(t, 2, resp.ActiveUsers)
	assert.Equal(t, 1, resp.InactiveUsers)
}

func TestDashboardHidesUsersWithoutCapability(t *testing.T) {
	repo := &fakeAuthRepo{caps: &models.Capabilities{Flags: map[string]bool{}}, users: staffDirectory()}
	svc := NewAccountService(repo, repo, nil)

	resp, err := svc.Dashboard(context.Background(), employee)
	require.NoError(t, err)
	assert.False(t, resp.Capabilities[models.CapViewUsers])
	assert.Empty(t, resp.Users)
}

func TestDashboardReportsUserListFailure(t *testing.T) {
	repo := &fakeAuthRepo{caps: &models.Capabilities{}, usersErr: appErrors.Upstream(500, "users down")}
	svc := NewAccountService(repo, repo, nil)

	resp, err := svc.Dashboard(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, "users down", resp.UsersError)
}

func TestDashboardPropagatesUnauthorized(t *testing.T) {
	repo := &fakeAuthRepo{capsErr: appErrors.Unauthorized("expired")}
	svc := NewAccountService(repo, repo, nil)

	_, err := svc.Dashboard(context.Background(), admin)
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.StatusOf(err))

	_, err = svc.Dashboard(context.Background(), nil)
	require.Error(t, err)
}

func TestCapabilitiesPrefersReportedRole(t *testing.T) {
	repo := &fakeAuthRepo{caps: &models.Capabilities{Role: "HR", Flags: map[string]bool{models.CapOpsReadOnly: true}}}
	svc := NewAccountService(repo, repo, nil)

	caps, err := svc.Capabilities(context.Background(), employee)
	require.NoError(t, err)
	assert.True(t, caps[models.CapViewUsers], "HR defaults apply")
	assert.True(t, caps[models.CapOpsReadOnly])
	assert.False(t, caps[models.CapCreateUsers])
}
