package models

import "strings"

// UserRole represents the roles known to the backend.
type UserRole string

const (
	RoleAdmin           UserRole = "ADMIN"
	RoleOpsManager      UserRole = "OPS_MANAGER"
	RoleAssistantValuer UserRole = "ASSISTANT_VALUER"
	RoleFieldValuer     UserRole = "FIELD_VALUER"
	RoleFinance         UserRole = "FINANCE"
	RoleHR              UserRole = "HR"
	RoleEmployee        UserRole = "EMPLOYEE"
)

// Roles lists every assignable role.
var Roles = []UserRole{RoleAdmin, RoleOpsManager, RoleAssistantValuer, RoleFieldValuer, RoleFinance, RoleHR, RoleEmployee}

// NormalizeRole upper-cases and trims a role string.
func NormalizeRole(role string) UserRole {
	return UserRole(strings.ToUpper(strings.TrimSpace(role)))
}

// IsAdmin reports whether role is ADMIN regardless of case.
func IsAdmin(role string) bool {
	return NormalizeRole(role) == RoleAdmin
}

// User represents a staff account as returned by /api/auth/users and /api/auth/me.
type User struct {
	ID          int      `json:"id"`
	Email       string   `json:"email"`
	FullName    *string  `json:"full_name,omitempty"`
	Role        UserRole `json:"role"`
	IsActive    bool     `json:"is_active"`
	Permissions []string `json:"permissions,omitempty"`
	CreatedBy   string   `json:"created_by,omitempty"`
}

// Name returns the full name or the email when no name is set.
func (u User) Name() string {
	if u.FullName != nil && strings.TrimSpace(*u.FullName) != "" {
		return strings.TrimSpace(*u.FullName)
	}
	return u.Email
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Offset   int  `json:"offset"`
	PageSize int  `json:"page_size"`
	HasMore  bool `json:"has_more"`
}
