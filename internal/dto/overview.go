package dto

import (
	"github.com/shopspring/decimal"

	"github.com/zenops/zen-ops-console/internal/models"
)

// ActivityEntry is an activity row prepared for the detail page timeline.
type ActivityEntry struct {
	models.Activity
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

// BranchOverview is a branch with its assignment counts. Summary is nil when
// the counts could not be loaded.
type BranchOverview struct {
	Branch  models.Branch             `json:"branch"`
	Summary *models.AssignmentSummary `json:"summary"`
}

// BankOverviewResponse backs the banks page: the bank, its summary and one
// summary per branch. Summaries fail soft.
type BankOverviewResponse struct {
	Bank          models.Bank               `json:"bank"`
	Summary       *models.AssignmentSummary `json:"summary"`
	CompletedPaid *int                      `json:"completed_paid,omitempty"`
	Branches      []BranchOverview          `json:"branches"`
}

// HomeResponse holds the home dashboard aggregates over the most recent assignments.
type HomeResponse struct {
	TotalAssignments  int                 `json:"total_assignments"`
	ActiveAssignments int                 `json:"active_assignments"`
	ByStatus          map[string]int      `json:"by_status"`
	TotalFees         decimal.Decimal     `json:"total_fees"`
	CollectedFees     decimal.Decimal     `json:"collected_fees"`
	PendingFees       decimal.Decimal     `json:"pending_fees"`
	TotalFeesLabel    string              `json:"total_fees_label"`
	CollectedLabel    string              `json:"collected_fees_label"`
	PendingLabel      string              `json:"pending_fees_label"`
	Recent            []models.Assignment `json:"recent"`
	Window            int                 `json:"window"`
}
