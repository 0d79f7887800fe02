package service

import (
	"context"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"

	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/models"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
)

const defaultSearchLimit = 20

type masterDataRepository interface {
	ListBanks(ctx context.Context) ([]models.Bank, error)
	GetBank(ctx context.Context, id int) (*models.Bank, error)
	CreateBank(ctx context.Context, req dto.BankRequest) (*models.Bank, error)
	UpdateBank(ctx context.Context, id int, req dto.BankUpdateRequest) (*models.Bank, error)
	ListBranches(ctx context.Context, bankID *int) ([]models.Branch, error)
	GetBranch(ctx context.Context, id int) (*models.Branch, error)
	CreateBranch(ctx context.Context, req dto.BranchRequest) (*models.Branch, error)
	UpdateBranch(ctx context.Context, id int, req dto.BranchUpdateRequest) (*models.Branch, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	CreateClient(ctx context.Context, req dto.ClientRequest) (*models.Client, error)
	ListPropertyTypes(ctx context.Context) ([]models.PropertyType, error)
	CreatePropertyType(ctx context.Context, req dto.PropertyTypeRequest) (*models.PropertyType, error)
}

// BankDetail is a bank with its branches.
type BankDetail struct {
	Bank     models.Bank     `json:"bank"`
	Branches []models.Branch `json:"branches"`
}

// MasterDataService validates master-data forms and serves picker searches.
type MasterDataService struct {
	repo      masterDataRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMasterDataService constructs a MasterDataService.
func NewMasterDataService(repo masterDataRepository, validate *validator.Validate, logger *zap.Logger) *MasterDataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MasterDataService{repo: repo, validator: validate, logger: logger}
}

// Banks lists every bank.
func (s *MasterDataService) Banks(ctx context.Context) ([]models.Bank, error) {
	return s.repo.ListBanks(ctx)
}

// Bank returns a bank and its branches.
func (s *MasterDataService) Bank(ctx context.Context, id int) (*BankDetail, error) {
	bank, err := s.repo.GetBank(ctx, id)
	if err != nil {
		return nil, err
	}
	branches, err := s.repo.ListBranches(ctx, &id)
	if err != nil {
		return nil, err
	}
	return &BankDetail{Bank: *bank, Branches: branches}, nil
}

// CreateBank validates and creates a bank.
func (s *MasterDataService) CreateBank(ctx context.Context, req dto.BankRequest) (*models.Bank, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate(req, "bank name must be 2 to 200 characters"); err != nil {
		return nil, err
	}
	return s.repo.CreateBank(ctx, req)
}

// UpdateBank validates and applies bank edits.
func (s *MasterDataService) UpdateBank(ctx context.Context, id int, req dto.BankUpdateRequest) (*models.Bank, error) {
	if err := s.validate(req, "invalid bank payload"); err != nil {
		return nil, err
	}
	return s.repo.UpdateBank(ctx, id, req)
}

// Branches lists branches, optionally filtered by bank.
func (s *MasterDataService) Branches(ctx context.Context, bankID *int) ([]models.Branch, error) {
	return s.repo.ListBranches(ctx, bankID)
}

// Branch returns one branch.
func (s *MasterDataService) Branch(ctx context.Context, id int) (*models.Branch, error) {
	return s.repo.GetBranch(ctx, id)
}

// CreateBranch validates and creates a branch.
func (s *MasterDataService) CreateBranch(ctx context.Context, req dto.BranchRequest) (*models.Branch, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.BankID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Select a bank first to create a branch.")
	}
	if err := s.validate(req, "invalid branch payload"); err != nil {
		return nil, err
	}
	return s.repo.CreateBranch(ctx, req)
}

// UpdateBranch validates and applies branch edits.
func (s *MasterDataService) UpdateBranch(ctx context.Context, id int, req dto.BranchUpdateRequest) (*models.Branch, error) {
	if err := s.validate(req, "invalid branch payload"); err != nil {
		return nil, err
	}
	return s.repo.UpdateBranch(ctx, id, req)
}

// Clients lists every client.
func (s *MasterDataService) Clients(ctx context.Context) ([]models.Client, error) {
	return s.repo.ListClients(ctx)
}

// CreateClient validates and creates a client.
func (s *MasterDataService) CreateClient(ctx context.Context, req dto.ClientRequest) (*models.Client, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate(req, "client name must be 2 to 200 characters"); err != nil {
		return nil, err
	}
	return s.repo.CreateClient(ctx, req)
}

// PropertyTypes lists every property type.
func (s *MasterDataService) PropertyTypes(ctx context.Context) ([]models.PropertyType, error) {
	return s.repo.ListPropertyTypes(ctx)
}

// CreatePropertyType validates and creates a property type.
func (s *MasterDataService) CreatePropertyType(ctx context.Context, req dto.PropertyTypeRequest) (*models.PropertyType, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate(req, "property type name must be 2 to 200 characters"); err != nil {
		return nil, err
	}
	return s.repo.CreatePropertyType(ctx, req)
}

// Search ranks the entries of one master-data kind against q. An empty q
// returns the first entries alphabetically.
func (s *MasterDataService) Search(ctx context.Context, query dto.SearchQuery) ([]models.MasterDataOption, error) {
	if err := s.validate(query, "invalid search query"); err != nil {
		return nil, err
	}
	options, err := s.options(ctx, models.MasterDataKind(query.Kind), query.Bank)
	if err != nil {
		return nil, err
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	return RankOptions(options, query.Q, limit), nil
}

// RankOptions orders options by fuzzy distance to q, dropping non-matches.
func RankOptions(options []models.MasterDataOption, q string, limit int) []models.MasterDataOption {
	q = strings.TrimSpace(q)
	var out []models.MasterDataOption
	if q == "" {
		out = append(out, options...)
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Label) < strings.ToLower(out[j].Label)
		})
	} else {
		labels := make([]string, len(options))
		for i, opt := range options {
			labels[i] = opt.Label
		}
		ranks := fuzzy.RankFindNormalizedFold(q, labels)
		sort.Stable(ranks)
		out = make([]models.MasterDataOption, 0, len(ranks))
		for _, rank := range ranks {
			opt := options[rank.OriginalIndex]
			opt.Rank = rank.Distance
			out = append(out, opt)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *MasterDataService) options(ctx context.Context, kind models.MasterDataKind, bankID *int) ([]models.MasterDataOption, error) {
	switch kind {
	case models.KindBanks:
		banks, err := s.repo.ListBanks(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]models.MasterDataOption, 0, len(banks))
		for _, b := range banks {
			out = append(out, models.MasterDataOption{ID: b.ID, Label: b.Name})
		}
		return out, nil
	case models.KindBranches:
		branches, err := s.repo.ListBranches(ctx, bankID)
		if err != nil {
			return nil, err
		}
		out := make([]models.MasterDataOption, 0, len(branches))
		for _, b := range branches {
			if !b.IsActive {
				continue
			}
			out = append(out, models.MasterDataOption{ID: b.ID, Label: b.Name})
		}
		return out, nil
	case models.KindClients:
		clients, err := s.repo.ListClients(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]models.MasterDataOption, 0, len(clients))
		for _, c := range clients {
			out = append(out, models.MasterDataOption{ID: c.ID, Label: c.Name})
		}
		return out, nil
	case models.KindPropertyTypes:
		types, err := s.repo.ListPropertyTypes(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]models.MasterDataOption, 0, len(types))
		for _, t := range types {
			out = append(out, models.MasterDataOption{ID: t.ID, Label: t.Name})
		}
		return out, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown master data kind")
	}
}

func (s *MasterDataService) validate(v any, message string) error {
	if err := s.validator.Struct(v); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}
	return nil
}
