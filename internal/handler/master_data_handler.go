package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/models"
	"github.com/zenops/zen-ops-console/internal/service"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
	"github.com/zenops/zen-ops-console/pkg/response"
)

type masterDataService interface {
	Banks(ctx context.Context) ([]models.Bank, error)
	Bank(ctx context.Context, id int) (*service.BankDetail, error)
	CreateBank(ctx context.Context, req dto.BankRequest) (*models.Bank, error)
	UpdateBank(ctx context.Context, id int, req dto.BankUpdateRequest) (*models.Bank, error)
	Branches(ctx context.Context, bankID *int) ([]models.Branch, error)
	Branch(ctx context.Context, id int) (*models.Branch, error)
	CreateBranch(ctx context.Context, req dto.BranchRequest) (*models.Branch, error)
	UpdateBranch(ctx context.Context, id int, req dto.BranchUpdateRequest) (*models.Branch, error)
	Clients(ctx context.Context) ([]models.Client, error)
	CreateClient(ctx context.Context, req dto.ClientRequest) (*models.Client, error)
	PropertyTypes(ctx context.Context) ([]models.PropertyType, error)
	CreatePropertyType(ctx context.Context, req dto.PropertyTypeRequest) (*models.PropertyType, error)
	Search(ctx context.Context, query dto.SearchQuery) ([]models.MasterDataOption, error)
}

// MasterDataHandler exposes banks, branches, clients and property types.
type MasterDataHandler struct {
	service masterDataService
}

// NewMasterDataHandler constructs the handler.
func NewMasterDataHandler(svc masterDataService) *MasterDataHandler {
	return &MasterDataHandler{service: svc}
}

func reply(c *gin.Context, status int, data interface{}, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, status, data, nil)
}

// ListBanks godoc
// @Summary List banks
// @Tags Master Data
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /banks [get]
func (h *MasterDataHandler) ListBanks(c *gin.Context) {
	banks, err := h.service.Banks(c.Request.Context())
	reply(c, http.StatusOK, banks, err)
}

// GetBank godoc
// @Summary Bank with its branches
// @Tags Master Data
// @Produce json
// @Param id path int true "Bank ID"
// @Success 200 {object} response.Envelope
// @Router /banks/{id} [get]
func (h *MasterDataHandler) GetBank(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	bank, err := h.service.Bank(c.Request.Context(), id)
	reply(c, http.StatusOK, bank, err)
}

// CreateBank godoc
// @Summary Create bank
// @Tags Master Data
// @Accept json
// @Param payload body dto.BankRequest true "Bank"
// @Success 201 {object} response.Envelope
// @Router /banks [post]
func (h *MasterDataHandler) CreateBank(c *gin.Context) {
	var req dto.BankRequest
	if !bindJSON(c, &req, "invalid bank payload") {
		return
	}
	bank, err := h.service.CreateBank(c.Request.Context(), req)
	reply(c, http.StatusCreated, bank, err)
}

// UpdateBank godoc
// @Summary Update bank account and invoice details
// @Tags Master Data
// @Accept json
// @Param id path int true "Bank ID"
// @Param payload body dto.BankUpdateRequest true "Bank"
// @Success 200 {object} response.Envelope
// @Router /banks/{id} [patch]
func (h *MasterDataHandler) UpdateBank(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.BankUpdateRequest
	if !bindJSON(c, &req, "invalid bank payload") {
		return
	}
	bank, err := h.service.UpdateBank(c.Request.Context(), id, req)
	reply(c, http.StatusOK, bank, err)
}

// ListBranches godoc
// @Summary List branches
// @Tags Master Data
// @Produce json
// @Param bank_id query int false "Bank filter"
// @Success 200 {object} response.Envelope
// @Router /branches [get]
func (h *MasterDataHandler) ListBranches(c *gin.Context) {
	var bankID *int
	if raw := c.Query("bank_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid bank_id"))
			return
		}
		bankID = &id
	}
	branches, err := h.service.Branches(c.Request.Context(), bankID)
	reply(c, http.StatusOK, branches, err)
}

// GetBranch godoc
// @Summary Get branch
// @Tags Master Data
// @Param id path int true "Branch ID"
// @Success 200 {object} response.Envelope
// @Router /branches/{id} [get]
func (h *MasterDataHandler) GetBranch(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	branch, err := h.service.Branch(c.Request.Context(), id)
	reply(c, http.StatusOK, branch, err)
}

// CreateBranch godoc
// @Summary Create branch under a bank
// @Tags Master Data
// @Accept json
// @Param payload body dto.BranchRequest true "Branch"
// @Success 201 {object} response.Envelope
// @Router /branches [post]
func (h *MasterDataHandler) CreateBranch(c *gin.Context) {
	var req dto.BranchRequest
	if !bindJSON(c, &req, "invalid branch payload") {
		return
	}
	branch, err := h.service.CreateBranch(c.Request.Context(), req)
	reply(c, http.StatusCreated, branch, err)
}

// UpdateBranch godoc
// @Summary Update branch
// @Tags Master Data
// @Accept json
// @Param id path int true "Branch ID"
// @Param payload body dto.BranchUpdateRequest true "Branch"
// @Success 200 {object} response.Envelope
// @Router /branches/{id} [patch]
func (h *MasterDataHandler) UpdateBranch(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.BranchUpdateRequest
	if !bindJSON(c, &req, "invalid branch payload") {
		return
	}
	branch, err := h.service.UpdateBranch(c.Request.Context(), id, req)
	reply(c, http.StatusOK, branch, err)
}

// ListClients godoc
// @Summary List clients
// @Tags Master Data
// @Success 200 {object} response.Envelope
// @Router /clients [get]
func (h *MasterDataHandler) ListClients(c *gin.Context) {
	clients, err := h.service.Clients(c.Request.Context())
	reply(c, http.StatusOK, clients, err)
}

// CreateClient godoc
// @Summary Create client
// @Tags Master Data
// @Accept json
// @Param payload body dto.ClientRequest true "Client"
// @Success 201 {object} response.Envelope
// @Router /clients [post]
func (h *MasterDataHandler) CreateClient(c *gin.Context) {
	var req dto.ClientRequest
	if !bindJSON(c, &req, "invalid client payload") {
		return
	}
	client, err := h.service.CreateClient(c.Request.Context(), req)
	reply(c, http.StatusCreated, client, err)
}

// ListPropertyTypes godoc
// @Summary List property types
// @Tags Master Data
// @Success 200 {object} response.Envelope
// @Router /property-types [get]
func (h *MasterDataHandler) ListPropertyTypes(c *gin.Context) {
	types, err := h.service.PropertyTypes(c.Request.Context())
	reply(c, http.StatusOK, types, err)
}

// CreatePropertyType godoc
// @Summary Create property type
// @Tags Master Data
// @Accept json
// @Param payload body dto.PropertyTypeRequest true "Property type"
// @Success 201 {object} response.Envelope
// @Router /property-types [post]
func (h *MasterDataHandler) CreatePropertyType(c *gin.Context) {
	var req dto.PropertyTypeRequest
	if !bindJSON(c, &req, "invalid property type payload") {
		return
	}
	pt, err := h.service.CreatePropertyType(c.Request.Context(), req)
	reply(c, http.StatusCreated, pt, err)
}

// Search godoc
// @Summary Fuzzy picker search
// @Tags Master Data
// @Produce json
// @Param kind query string true "banks, branches, clients or property-types"
// @Param q query string false "Search text"
// @Param limit query int false "Maximum results"
// @Param bank_id query int false "Restrict branches to a bank"
// @Success 200 {object} response.Envelope
// @Router /search [get]
func (h *MasterDataHandler) Search(c *gin.Context) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid search query"))
		return
	}
	options, err := h.service.Search(c.Request.Context(), q)
	reply(c, http.StatusOK, options, err)
}
