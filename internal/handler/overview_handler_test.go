package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/models"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
)

type fakeOverview struct {
	bankIDs []int
	err     error
}

func (f *fakeOverview) BankOverview(_ context.Context, bankID int) (*dto.BankOverviewResponse, error) {
	f.bankIDs = append(f.bankIDs, bankID)
	if f.err != nil {
		return nil, f.err
	}
	return &dto.BankOverviewResponse{
		Bank:     models.Bank{ID: bankID, Name: "HDFC"},
		Branches: []dto.BranchOverview{{Branch: models.Branch{ID: 7, BankID: bankID, Name: "Ring Road"}}},
	}, nil
}

func (f *fakeOverview) Home(context.Context) (*dto.HomeResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.HomeResponse{TotalAssignments: 3, ByStatus: map[string]int{"COMPLETED": 3}}, nil
}

func TestBankOverviewReportsMissingSummaryAsNull(t *testing.T) {
	svc := &fakeOverview{}
	h := NewOverviewHandler(svc)
	c, rec := testContext(http.MethodGet, "/console/banks/3/overview", "")
	c.Params = append(c.Params, ginParam("id", "3"))
	h.BankOverview(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{3}, svc.bankIDs)
	var body struct {
		Branches []struct {
			Summary *models.AssignmentSummary `json:"summary"`
		} `json:"branches"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &body))
	require.Len(t, body.Branches, 1)
	assert.Nil(t, body.Branches[0].Summary)
	assert.Contains(t, string(decode(t, rec).Data), `"summary":null`)
}

func TestBankOverviewRejectsBadID(t *testing.T) {
	svc := &fakeOverview{}
	h := NewOverviewHandler(svc)
	c, rec := testContext(http.MethodGet, "/console/banks/x/overview", "")
	c.Params = append(c.Params, ginParam("id", "x"))
	h.BankOverview(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.bankIDs)
}

func TestHomeUpstreamFailure(t *testing.T) {
	h := NewOverviewHandler(&fakeOverview{err: appErrors.Upstream(http.StatusInternalServerError, "")})
	c, rec := testContext(http.MethodGet, "/console/home", "")
	h.Home(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "HTTP 500", decode(t, rec).Error.Message)
}

func TestAssignmentActivity(t *testing.T) {
	h := NewAssignmentHandler(&fakeAssignmentSrv{})
	c, rec := testContext(http.MethodGet, "/console/assignments/4/activity", "")
	c.Params = append(c.Params, ginParam("id", "4"))
	h.Activity(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decode(t, rec).Data), `"title":"Status changed"`)
}
