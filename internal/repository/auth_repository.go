package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/models"
)

const (
	authPath  = "/api/auth"
	usersPath = authPath + "/users"
)

type changePasswordBody struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type toggleActiveBody struct {
	IsActive bool `json:"is_active"`
}

// AuthRepository wraps the backend authentication and user-admin endpoints.
type AuthRepository struct {
	api apiClient
}

// NewAuthRepository instantiates an auth repository.
func NewAuthRepository(api apiClient) *AuthRepository {
	return &AuthRepository{api: api}
}

// Login exchanges credentials for an access token.
func (r *AuthRepository) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := r.api.SendJSON(ctx, http.MethodPost, authPath+"/login", req, &out); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &out, nil
}

// Me returns the profile of the authenticated user.
func (r *AuthRepository) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := r.api.GetJSON(ctx, authPath+"/me", &out); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &out, nil
}

// Capabilities returns the capability flags of the authenticated user.
func (r *AuthRepository) Capabilities(ctx context.Context) (*models.Capabilities, error) {
	var out models.Capabilities
	if err := r.api.GetJSON(ctx, authPath+"/capabilities", &out); err != nil {
		return nil, fmt.Errorf("get capabilities: %w", err)
	}
	return &out, nil
}

// ChangePassword changes the authenticated user's password.
func (r *AuthRepository) ChangePassword(ctx context.Context, current, next string) error {
	body := changePasswordBody{CurrentPassword: current, NewPassword: next}
	if err := r.api.SendJSON(ctx, http.MethodPost, authPath+"/me/change-password", body, nil); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// ListUsers returns every staff account.
func (r *AuthRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := r.api.GetJSON(ctx, usersPath, &out); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

// CreateUser creates a staff account.
func (r *AuthRepository) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*models.User, error) {
	var out models.User
	if err := r.api.SendJSON(ctx, http.MethodPost, usersPath, req, &out); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &out, nil
}

// UpdateUser renames a user or changes their role.
func (r *AuthRepository) UpdateUser(ctx context.Context, id int, req dto.UpdateUserRequest) (*models.User, error) {
	var out models.User
	if err := r.api.SendJSON(ctx, http.MethodPatch, itemPath(usersPath, id), req, &out); err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return &out, nil
}

// SetActive activates or deactivates a user.
func (r *AuthRepository) SetActive(ctx context.Context, id int, active bool) (*models.User, error) {
	var out models.User
	path := itemPath(usersPath, id) + "/toggle-active"
	if err := r.api.SendJSON(ctx, http.MethodPatch, path, toggleActiveBody{IsActive: active}, &out); err != nil {
		return nil, fmt.Errorf("toggle user %d: %w", id, err)
	}
	return &out, nil
}

// ResetPassword sets a new password for a user.
func (r *AuthRepository) ResetPassword(ctx context.Context, id int, password string) (*dto.ResetPasswordResponse, error) {
	var out dto.ResetPasswordResponse
	path := itemPath(usersPath, id) + "/reset-password"
	if err := r.api.SendJSON(ctx, http.MethodPost, path, dto.ResetPasswordRequest{NewPassword: password}, &out); err != nil {
		return nil, fmt.Errorf("reset password %d: %w", id, err)
	}
	return &out, nil
}
