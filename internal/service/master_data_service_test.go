package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/models"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
)

type fakeMasterDataRepo struct {
	banks        []models.Bank
	branches     []models.Branch
	clients      []models.Client
	types        []models.PropertyType
	branchFilter []*int
	createdBanks []dto.BankRequest
	createdBr    []dto.BranchRequest
}

func (f *fakeMasterDataRepo) ListBanks(context.Context) ([]models.Bank, error) { return f.banks, nil }

func (f *fakeMasterDataRepo) GetBank(_ context.Context, id int) (*models.Bank, error) {
	for _, b := range f.banks {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, appErrors.Upstream(404, "Bank not found")
}

func (f *fakeMasterDataRepo) CreateBank(_ context.Context, req dto.BankRequest) (*models.Bank, error) {
	f.createdBanks = append(f.createdBanks, req)
	return &models.Bank{ID: 99, Name: req.Name}, nil
}

func (f *fakeMasterDataRepo) UpdateBank(_ context.Context, id int, req dto.BankUpdateRequest) (*models.Bank, error) {
	return &models.Bank{ID: id, Name: *req.Name}, nil
}

func (f *fakeMasterDataRepo) ListBranches(_ context.Context, bankID *int) ([]models.Branch, error) {
	f.branchFilter = append(f.branchFilter, bankID)
	if bankID == nil {
		return f.branches, nil
	}
	var out []models.Branch
	for _, b := range f.branches {
		if b.BankID == *bankID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeMasterDataRepo) GetBranch(_ context.Context, id int) (*models.Branch, error) {
	return &models.Branch{ID: id}, nil
}

func (f *fakeMasterDataRepo) CreateBranch(_ context.Context, req dto.BranchRequest) (*models.Branch, error) {
	f.createdBr = append(f.createdBr, req)
	return &models.Branch{ID: 70, BankID: req.BankID, Name: req.Name, IsActive: true}, nil
}

func (f *fakeMasterDataRepo) UpdateBranch(_ context.Context, id int, _ dto.BranchUpdateRequest) (*models.Branch, error) {
	return &models.Branch{ID: id}, nil
}

func (f *fakeMasterDataRepo) ListClients(context.Context) ([]models.Client, error) { return f.clients, nil }

func (f *fakeMasterDataRepo) CreateClient(_ context.Context, req dto.ClientRequest) (*models.Client, error) {
	return &models.Client{ID: 30, Name: req.Name}, nil
}

func (f *fakeMasterDataRepo) ListPropertyTypes(context.Context) ([]models.PropertyType, error) {
	return f.types, nil
}

func (f *fakeMasterDataRepo) CreatePropertyType(_ context.Context, req dto.PropertyTypeRequest) (*models.PropertyType, error) {
	return &models.PropertyType{ID: 4, Name: req.Name}, nil
}

func seededMasterData() *fakeMasterDataRepo {
	return &fakeMasterDataRepo{
		banks: []models.Bank{{ID: 1, Name: "ICICI"}, {ID: 2, Name: "HDFC Bank"}, {ID: 3, Name: "Hindustan Development"}},
		branches: []models.Branch{
			{ID: 10, BankID: 2, Name: "Ring Road", IsActive: true},
			{ID: 11, BankID: 2, Name: "Rajpur", IsActive: false},
			{ID: 12, BankID: 1, Name: "Rohini", IsActive: true},
		},
		clients: []models.Client{{ID: 5, Name: "Acme Estates"}},
		types:   []models.PropertyType{{ID: 1, Name: "Flat"}, {ID: 2, Name: "Plot"}},
	}
}

func TestRankOptionsFuzzyOrder(t *testing.T) {
	options := []models.MasterDataOption{{ID: 1, Label: "ICICI"}, {ID: 2, Label: "HDFC Bank"}, {ID: 3, Label: "Hindustan Development"}}

	ranked := RankOptions(options, "hd", 10)
	require.Len(t, ranked, 2)
	assert.Equal(t, 2, ranked[0].ID)
	assert.Equal(t, 3, ranked[1].ID)

	assert.Empty(t, RankOptions(options, "zzz", 10))
}

func TestRankOptionsEmptyQuerySortsAlphabetically(t *testing.T) {
	options := []models.MasterDataOption{{ID: 1, Label: "plot"}, {ID: 2, Label: "Flat"}, {ID: 3, Label: "Bungalow"}}

	ranked := RankOptions(options, "  ", 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Bungalow", ranked[0].Label)
	assert.Equal(t, "Flat", ranked[1].Label)
}

func TestSearchBranchesSkipsInactiveAndFiltersByBank(t *testing.T) {
	repo := seededMasterData()
	svc := NewMasterDataService(repo, nil, nil)

	options, err := svc.Search(context.Background(), dto.SearchQuery{Kind: "branches", Q: "r", Bank: intPtr(2)})
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "Ring Road", options[0].Label)
	require.Len(t, repo.branchFilter, 1)
	assert.Equal(t, 2, *repo.branchFilter[0])
}

func TestSearchRejectsUnknownKind(t *testing.T) {
	svc := NewMasterDataService(seededMasterData(), nil, nil)
	_, err := svc.Search(context.Background(), dto.SearchQuery{Kind: "invoices"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestBankDetailIncludesBranches(t *testing.T) {
	svc := NewMasterDataService(seededMasterData(), nil, nil)

	detail, err := svc.Bank(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "HDFC Bank", detail.Bank.Name)
	assert.Len(t, detail.Branches, 2)

	_, err = svc.Bank(context.Background(), 404)
	assert.Equal(t, 404, appErrors.StatusOf(err))
}

func TestCreateBranchRequiresBank(t *testing.T) {
	repo := seededMasterData()
	svc := NewMasterDataService(repo, nil, nil)

	_, err := svc.CreateBranch(context.Background(), dto.BranchRequest{Name: "Karol Bagh"})
	require.Error(t, err)
	assert.Equal(t, "Select a bank first to create a branch.", appErrors.FromError(err).Message)

	branch, err := svc.CreateBranch(context.Background(), dto.BranchRequest{BankID: 2, Name: "  Karol Bagh "})
	require.NoError(t, err)
	assert.Equal(t, "Karol Bagh", branch.Name)
}

func TestCreateBankValidatesName(t *testing.T) {
	repo := seededMasterData()
	svc := NewMasterDataService(repo, nil, nil)

	_, err := svc.CreateBank(context.Background(), dto.BankRequest{Name: " A "})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, repo.createdBanks)

	bank, err := svc.CreateBank(context.Background(), dto.BankRequest{Name: " Axis Bank "})
	require.NoError(t, err)
	assert.Equal(t, "Axis Bank", bank.Name)
}
