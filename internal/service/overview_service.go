package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zenops/zen-ops-console/internal/assignmentlist"
	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/models"
	"github.com/zenops/zen-ops-console/pkg/format"
)

const (
	// HomeWindow is how many of the most recent assignments the home page aggregates.
	HomeWindow = assignmentlist.MaxPageSize
	homeRecent = 8
	// branchSummaryConcurrency bounds the per-branch summary fan-out.
	branchSummaryConcurrency = 8
)

type overviewBanks interface {
	GetBank(ctx context.Context, id int) (*models.Bank, error)
	ListBranches(ctx context.Context, bankID *int) ([]models.Branch, error)
}

type overviewAssignments interface {
	List(ctx context.Context, scope assignmentlist.Scope, q assignmentlist.Query) ([]models.Assignment, error)
	ScopedSummary(ctx context.Context, scope assignmentlist.Scope) (*models.AssignmentSummary, error)
}

// OverviewService builds the banks page and the home dashboard.
type OverviewService struct {
	banks       overviewBanks
	assignments overviewAssignments
	logger      *zap.Logger
}

// NewOverviewService constructs an OverviewService.
func NewOverviewService(banks overviewBanks, assignments overviewAssignments, logger *zap.Logger) *OverviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverviewService{banks: banks, assignments: assignments, logger: logger}
}

// BankOverview loads a bank with its branches, then the bank summary and every
// branch summary in parallel. The bank and branch lookups are required; any
// summary that fails is left nil.
func (s *OverviewService) BankOverview(ctx context.Context, bankID int) (*dto.BankOverviewResponse, error) {
	var (
		bank     *models.Bank
		branches []models.Branch
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bank, err = s.banks.GetBank(gctx, bankID)
		return err
	})
	g.Go(func() error {
		var err error
		branches, err = s.banks.ListBranches(gctx, &bankID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(branches, func(i, j int) bool {
		return strings.ToLower(branches[i].Name) < strings.ToLower(branches[j].Name)
	})
	resp := &dto.BankOverviewResponse{Bank: *bank, Branches: make([]dto.BranchOverview, len(branches))}
	for i, br := range branches {
		resp.Branches[i].Branch = br
	}

	var mu sync.Mutex
	summaries := new(errgroup.Group)
	summaries.SetLimit(branchSummaryConcurrency)
	summaries.Go(func() error {
		sum := s.softSummary(ctx, assignmentlist.Scope{BankID: &bankID})
		mu.Lock()
		resp.Summary = sum
		mu.Unlock()
		return nil
	})
	for i := range resp.Branches {
		i := i // per-iteration copy; module targets go 1.21 loop semantics
		branchID := resp.Branches[i].Branch.ID
		summaries.Go(func() error {
			sum := s.softSummary(ctx, assignmentlist.Scope{BranchID: &branchID})
			mu.Lock()
			resp.Branches[i].Summary = sum
			mu.Unlock()
			return nil
		})
	}
	_ = summaries.Wait()

	if resp.Summary != nil {
		paid := resp.Summary.CompletedPaid()
		resp.CompletedPaid = &paid
	}
	return resp, nil
}

func (s *OverviewService) softSummary(ctx context.Context, scope assignmentlist.Scope) *models.AssignmentSummary {
	sum, err := s.assignments.ScopedSummary(ctx, scope)
	if err != nil {
		s.logger.Debug("scoped summary unavailable", zap.Error(err))
		return nil
	}
	return sum
}

// Home aggregates the most recent assignments: counts per status, active
// work, total, collected and pending fees. A failed fetch is returned.
func (s *OverviewService) Home(ctx context.Context) (*dto.HomeResponse, error) {
	q := assignmentlist.DefaultQuery(HomeWindow)
	rows, err := s.assignments.List(ctx, assignmentlist.Scope{}, q)
	if err != nil {
		return nil, err
	}
	return Aggregate(rows), nil
}

// Aggregate computes the home dashboard figures for rows.
func Aggregate(rows []models.Assignment) *dto.HomeResponse {
	sorted := make([]models.Assignment, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })

	resp := &dto.HomeResponse{
		TotalAssignments: len(sorted),
		ByStatus:         map[string]int{},
		TotalFees:        decimal.Zero,
		CollectedFees:    decimal.Zero,
		Window:           HomeWindow,
	}
	for _, a := range sorted {
		status := strings.ToUpper(strings.TrimSpace(string(a.Status)))
		if status == "" {
			status = "UNKNOWN"
		}
		resp.ByStatus[status]++
		if status != string(models.StatusCompleted) && status != "CANCELLED" {
			resp.ActiveAssignments++
		}
		resp.TotalFees = resp.TotalFees.Add(a.Fees)
		if a.IsPaid {
			resp.CollectedFees = resp.CollectedFees.Add(a.Fees)
		}
	}
	resp.PendingFees = decimal.Max(decimal.Zero, resp.TotalFees.Sub(resp.CollectedFees))
	resp.TotalFeesLabel = format.INR(resp.TotalFees)
	resp.CollectedLabel = format.INR(resp.CollectedFees)
	resp.PendingLabel = format.INR(resp.PendingFees)

	n := len(sorted)
	if n > homeRecent {
		n = homeRecent
	}
	resp.Recent = sorted[:n]
	return resp
}
