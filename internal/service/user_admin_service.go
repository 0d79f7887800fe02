package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/models"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
)

type userAdminRepository interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, id int, req dto.UpdateUserRequest) (*models.User, error)
	SetActive(ctx context.Context, id int, active bool) (*models.User, error)
	ResetPassword(ctx context.Context, id int, password string) (*dto.ResetPasswordResponse, error)
}

// UserAdminService manages staff accounts on behalf of admins and HR.
type UserAdminService struct {
	repo      userAdminRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserAdminService constructs a UserAdminService.
func NewUserAdminService(repo userAdminRepository, validate *validator.Validate, logger *zap.Logger) *UserAdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserAdminService{repo: repo, validator: validate, logger: logger}
}

// List returns every staff account.
func (s *UserAdminService) List(ctx context.Context) ([]models.User, error) {
	return s.repo.ListUsers(ctx)
}

// Create adds a staff account. Role defaults to EMPLOYEE.
func (s *UserAdminService) Create(ctx context.Context, actor *models.Session, req dto.CreateUserRequest) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only ADMIN can create users")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Role = string(models.NormalizeRole(req.Role))
	if req.Role == "" {
		req.Role = string(models.RoleEmployee)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "email is required and password must be at least 6 characters")
	}
	user, err := s.repo.CreateUser(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", zap.Int("id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Update renames a user and, for admins, changes their role.
func (s *UserAdminService) Update(ctx context.Context, actor *models.Session, id int, req dto.UpdateUserRequest) (*models.User, error) {
	if req.Role != nil {
		role := string(models.NormalizeRole(*req.Role))
		req.Role = &role
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}
	if req.Role != nil {
		if !actor.IsAdmin() {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "only ADMIN can change roles")
		}
		if actor.ID == id {
			return nil, appErrors.Clone(appErrors.ErrValidation, "You cannot change your own role")
		}
	}
	if req.FullName == nil && req.Role == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nothing to update")
	}
	return s.repo.UpdateUser(ctx, id, req)
}

// SetActive activates or deactivates id. Nobody may toggle themselves and only
// admins may toggle another admin.
func (s *UserAdminService) SetActive(ctx context.Context, actor *models.Session, id int, req dto.ToggleActiveRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "is_active is required")
	}
	if actor != nil && actor.ID == id {
		return nil, appErrors.Clone(appErrors.ErrValidation, "You cannot change your own active status")
	}
	if err := s.guardAdminTarget(ctx, actor, id, "only ADMIN can activate or deactivate an ADMIN"); err != nil {
		return nil, err
	}
	user, err := s.repo.SetActive(ctx, id, *req.IsActive)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user active status changed", zap.Int("id", id), zap.Bool("active", *req.IsActive))
	return user, nil
}

// ResetPassword sets a new password for id.
func (s *UserAdminService) ResetPassword(ctx context.Context, actor *models.Session, id int, req dto.ResetPasswordRequest) (*dto.ResetPasswordResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "password must be at least 6 characters")
	}
	if err := s.guardAdminTarget(ctx, actor, id, "only ADMIN can reset an ADMIN password"); err != nil {
		return nil, err
	}
	ack, err := s.repo.ResetPassword(ctx, id, req.NewPassword)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user password reset", zap.Int("id", id))
	return ack, nil
}

func (s *UserAdminService) guardAdminTarget(ctx context.Context, actor *models.Session, id int, message string) error {
	if actor.IsAdmin() {
		return nil
	}
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.ID == id {
			if models.IsAdmin(string(u.Role)) {
				return appErrors.Clone(appErrors.ErrForbidden, message)
			}
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "user not found")
}
