package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/models"
)

const masterPath = "/api/master"

// MasterDataRepository handles banks, branches, clients and property types.
type MasterDataRepository struct {
	api apiClient
}

// NewMasterDataRepository instantiates a master-data repository.
func NewMasterDataRepository(api apiClient) *MasterDataRepository {
	return &MasterDataRepository{api: api}
}

// ListBanks returns every bank.
func (r *MasterDataRepository) ListBanks(ctx context.Context) ([]models.Bank, error) {
	var out []models.Bank
	if err := r.api.GetJSON(ctx, masterPath+"/banks", &out); err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}
	return out, nil
}

// GetBank loads one bank.
func (r *MasterDataRepository) GetBank(ctx context.Context, id int) (*models.Bank, error) {
	var out models.Bank
	if err := r.api.GetJSON(ctx, itemPath(masterPath+"/banks", id), &out); err != nil {
		return nil, fmt.Errorf("get bank %d: %w", id, err)
	}
	return &out, nil
}

// CreateBank posts a new bank.
func (r *MasterDataRepository) CreateBank(ctx context.Context, req dto.BankRequest) (*models.Bank, error) {
	var out models.Bank
	if err := r.api.SendJSON(ctx, http.MethodPost, masterPath+"/banks", req, &out); err != nil {
		return nil, fmt.Errorf("create bank: %w", err)
	}
	return &out, nil
}

// UpdateBank patches a bank.
func (r *MasterDataRepository) UpdateBank(ctx context.Context, id int, req dto.BankUpdateRequest) (*models.Bank, error) {
	var out models.Bank
	if err := r.api.SendJSON(ctx, http.MethodPatch, itemPath(masterPath+"/banks", id), req, &out); err != nil {
		return nil, fmt.Errorf("update bank %d: %w", id, err)
	}
	return &out, nil
}

// ListBranches returns branches, optionally only those of bankID.
func (r *MasterDataRepository) ListBranches(ctx context.Context, bankID *int) ([]models.Branch, error) {
	values := url.Values{}
	if bankID != nil {
		values.Set("bank_id", strconv.Itoa(*bankID))
	}
	var out []models.Branch
	if err := r.api.GetJSON(ctx, withQuery(masterPath+"/branches", values), &out); err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return out, nil
}

// GetBranch loads one branch.
func (r *MasterDataRepository) GetBranch(ctx context.Context, id int) (*models.Branch, error) {
	var out models.Branch
	if err := r.api.GetJSON(ctx, itemPath(masterPath+"/branches", id), &out); err != nil {
		return nil, fmt.Errorf("get branch %d: %w", id, err)
	}
	return &out, nil
}

// CreateBranch posts a new branch.
func (r *MasterDataRepository) CreateBranch(ctx context.Context, req dto.BranchRequest) (*models.Branch, error) {
	var out models.Branch
	if err := r.api.SendJSON(ctx, http.MethodPost, masterPath+"/branches", req, &out); err != nil {
		return nil, fmt.Errorf("create branch: %w", err)
	}
	return &out, nil
}

// UpdateBranch patches a branch.
func (r *MasterDataRepository) UpdateBranch(ctx context.Context, id int, req dto.BranchUpdateRequest) (*models.Branch, error) {
	var out models.Branch
	if err := r.api.SendJSON(ctx, http.MethodPatch, itemPath(masterPath+"/branches", id), req, &out); err != nil {
		return nil, fmt.Errorf("update branch %d: %w", id, err)
	}
	return &out, nil
}

// ListClients returns every client.
func (r *MasterDataRepository) ListClients(ctx context.Context) ([]models.Client, error) {
	var out []models.Client
	if err := r.api.GetJSON(ctx, masterPath+"/clients", &out); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return out, nil
}

// CreateClient posts a new client.
func (r *MasterDataRepository) CreateClient(ctx context.Context, req dto.ClientRequest) (*models.Client, error) {
	var out models.Client
	if err := r.api.SendJSON(ctx, http.MethodPost, masterPath+"/clients", req, &out); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return &out, nil
}

// ListPropertyTypes returns every property type.
func (r *MasterDataRepository) ListPropertyTypes(ctx context.Context) ([]models.PropertyType, error) {
	var out []models.PropertyType
	if err := r.api.GetJSON(ctx, masterPath+"/property-types", &out); err != nil {
		return nil, fmt.Errorf("list property types: %w", err)
	}
	return out, nil
}

// CreatePropertyType posts a new property type.
func (r *MasterDataRepository) CreatePropertyType(ctx context.Context, req dto.PropertyTypeRequest) (*models.PropertyType, error) {
	var out models.PropertyType
	if err := r.api.SendJSON(ctx, http.MethodPost, masterPath+"/property-types", req, &out); err != nil {
		return nil, fmt.Errorf("create property type: %w", err)
	}
	return &out, nil
}
