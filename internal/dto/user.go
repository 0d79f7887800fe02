package dto

import (
	"time"

	"github.com/zenops/zen-ops-console/internal/models"
)

// CreateUserRequest is the admin form for a new staff account.
type CreateUserRequest struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Role     string  `json:"role,omitempty" validate:"omitempty,oneof=ADMIN OPS_MANAGER ASSISTANT_VALUER FIELD_VALUER FINANCE HR EMPLOYEE"`
	Password string  `json:"password" validate:"required,min=6"`
}

// UpdateUserRequest renames a user or changes their role.
type UpdateUserRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=ADMIN OPS_MANAGER ASSISTANT_VALUER FIELD_VALUER FINANCE HR EMPLOYEE"`
}

// ToggleActiveRequest activates or deactivates a user.
type ToggleActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// ResetPasswordRequest sets a new password for another user.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ResetPasswordResponse is the backend acknowledgement.
type ResetPasswordResponse struct {
	OK     bool `json:"ok"`
	UserID int  `json:"user_id"`
}

// AccountResponse is the account page: profile, capabilities and scope summary.
type AccountResponse struct {
	User           models.User               `json:"user"`
	Capabilities   map[string]bool           `json:"capabilities"`
	Summary        *models.AssignmentSummary `json:"summary"`
	SummaryError   string                    `json:"summary_error,omitempty"`
	CompletedPaid  *int                      `json:"completed_paid,omitempty"`
	TokenExpiresAt *time.Time                `json:"token_expires_at,omitempty"`
}

// WorkloadResponse is the global workload overview.
type WorkloadResponse struct {
	Total           int `json:"total"`
	Pending         int `json:"pending"`
	Completed       int `json:"completed"`
	CompletedUnpaid int `json:"completed_unpaid"`
	CompletedPaid   int `json:"completed_paid"`
}

// DashboardResponse is the admin dashboard.
type DashboardResponse struct {
	Role              string          `json:"role"`
	Capabilities      map[string]bool `json:"capabilities"`
	CapabilitiesError string          `json:"capabilities_error,omitempty"`
	Users             []models.User   `json:"users,omitempty"`
	UsersError        string          `json:"users_error,omitempty"`
	ActiveUsers       int             `json:"active_users"`
	InactiveUsers     int             `json:"inactive_users"`
}

// NavItem is one sidebar entry.
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// ShellResponse drives the layout: who is logged in and where they may go.
type ShellResponse struct {
	User    *models.Session `json:"user"`
	IsAdmin bool            `json:"is_admin"`
	Nav     []NavItem       `json:"nav"`
}
