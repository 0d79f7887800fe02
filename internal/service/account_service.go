package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/models"
	"github.com/zenops/zen-ops-console/internal/session"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
)

type profileRepository interface {
	Me(ctx context.Context) (*models.User, error)
	Capabilities(ctx context.Context) (*models.Capabilities, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type summaryRepository interface {
	Summary(ctx context.Context) (*models.AssignmentSummary, error)
}

// AccountService composes the account, workload and admin dashboard pages.
type AccountService struct {
	profiles profileRepository
	summary  summaryRepository
	logger   *zap.Logger
}

// NewAccountService constructs an AccountService.
func NewAccountService(profiles profileRepository, summary summaryRepository, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{profiles: profiles, summary: summary, logger: logger}
}

// Account loads profile, capabilities and summary together. Profile and
// capabilities are required; a failed summary is reported but not fatal.
func (s *AccountService) Account(ctx context.Context, actor *models.Session) (*dto.AccountResponse, error) {
	var (
		me      *models.User
		caps    *models.Capabilities
		summary *models.AssignmentSummary
		sumErr  error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		me, err = s.profiles.Me(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		caps, err = s.profiles.Capabilities(gctx)
		return err
	})
	g.Go(func() error {
		// Soft dependency: not cancelled with the group.
		summary, sumErr = s.summary.Summary(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	role := string(me.Role)
	if role == "" && actor != nil {
		role = actor.Role
	}
	resp := &dto.AccountResponse{
		User:         *me,
		Capabilities: models.ResolveCapabilities(caps, role),
		Summary:      summary,
	}
	if sumErr != nil {
		s.logger.Debug("account summary unavailable", zap.Error(sumErr))
		resp.SummaryError = appErrors.FromError(sumErr).Message
	} else if summary != nil {
		paid := summary.CompletedPaid()
		resp.CompletedPaid = &paid
	}
	if actor != nil {
		if exp, ok := session.TokenExpiry(actor.Token); ok {
			resp.TokenExpiresAt = &exp
		}
	}
	return resp, nil
}

// Me returns the backend profile of the logged-in user.
func (s *AccountService) Me(ctx context.Context) (*models.User, error) {
	return s.profiles.Me(ctx)
}

// Capabilities resolves the capability flags of actor, filling unreported flags from its role.
func (s *AccountService) Capabilities(ctx context.Context, actor *models.Session) (map[string]bool, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	caps, err := s.profiles.Capabilities(ctx)
	if err != nil {
		return nil, err
	}
	role := actor.Role
	if caps != nil && caps.Role != "" {
		role = caps.Role
	}
	return models.ResolveCapabilities(caps, role), nil
}

// Workload returns the global counts; any failure is returned to the caller.
func (s *AccountService) Workload(ctx context.Context) (*dto.WorkloadResponse, error) {
	summary, err := s.summary.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.WorkloadResponse{
		Total:           summary.Total,
		Pending:         summary.Pending,
		Completed:       summary.Completed,
		CompletedUnpaid: summary.CompletedUnpaid,
		CompletedPaid:   summary.CompletedPaid(),
	}, nil
}

// Dashboard resolves capability flags for actor and, when allowed, lists users.
// Each backend failure is reported in the response instead of failing the page.
func (s *AccountService) Dashboard(ctx context.Context, actor *models.Session) (*dto.DashboardResponse, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	resp := &dto.DashboardResponse{Role: string(models.NormalizeRole(actor.Role))}

	caps, err := s.profiles.Capabilities(ctx)
	if err != nil {
		if errors.Is(err, appErrors.ErrUnauthorized) {
			return nil, err
		}
		resp.CapabilitiesError = appErrors.FromError(err).Message
		caps = nil
	}
	resp.Capabilities = models.ResolveCapabilities(caps, actor.Role)

	if !resp.Capabilities[models.CapViewUsers] {
		return resp, nil
	}
	users, err := s.profiles.ListUsers(ctx)
	if err != nil {
		resp.UsersError = appErrors.FromError(err).Message
		return resp, nil
	}
	resp.Users = users
	for _, u := range users {
		if u.IsActive {
			resp.ActiveUsers++
		} else {
			resp.InactiveUsers++
		}
	}
	return resp, nil
}
