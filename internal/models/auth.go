package models

import (
	"encoding/json"
	"strings"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,min=3,max=255"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the backend reply to POST /api/auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// ChangePasswordRequest is the self-service password form.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// Capability flags understood by the console.
const (
	CapViewUsers   = "can_view_users"
	CapCreateUsers = "can_create_users"
	CapUpdateUsers = "can_update_users"
	CapChangeRoles = "can_change_roles"
	CapOpsReadOnly = "ops_read_only"
)

// Capabilities carries boolean flags reported by /api/auth/capabilities.
// Flags may be top-level or nested under "capabilities"; top-level wins.
type Capabilities struct {
	Role  string          `json:"role,omitempty"`
	Flags map[string]bool `json:"capabilities"`
}

// UnmarshalJSON collects boolean flags from both places.
func (c *Capabilities) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Flags = map[string]bool{}
	if nested, ok := raw["capabilities"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(nested, &inner); err == nil {
			collectBools(inner, c.Flags)
		}
	}
	collectBools(raw, c.Flags)
	if role, ok := raw["role"]; ok {
		_ = json.Unmarshal(role, &c.Role)
	}
	return nil
}

func collectBools(src map[string]json.RawMessage, dst map[string]bool) {
	for key, value := range src {
		var b bool
		if err := json.Unmarshal(value, &b); err == nil {
			dst[key] = b
		}
	}
}

// Flag returns the flag value and whether the backend reported it.
func (c *Capabilities) Flag(key string) (bool, bool) {
	if c == nil || c.Flags == nil {
		return false, false
	}
	v, ok := c.Flags[key]
	return v, ok
}

// ResolveCapabilities fills unreported flags from role defaults.
func ResolveCapabilities(caps *Capabilities, role string) map[string]bool {
	r := NormalizeRole(role)
	defaults := map[string]bool{
		CapViewUsers:   r == RoleAdmin || r == RoleHR || r == RoleOpsManager,
		CapCreateUsers: r == RoleAdmin,
		CapUpdateUsers: r == RoleAdmin || r == RoleHR,
		CapChangeRoles: r == RoleAdmin,
		CapOpsReadOnly: r == RoleOpsManager,
	}
	resolved := make(map[string]bool, len(defaults))
	for key, fallback := range defaults {
		if v, ok := caps.Flag(key); ok {
			resolved[key] = v
			continue
		}
		resolved[key] = fallback
	}
	return resolved
}

// Session is the persisted identity of the logged-in user.
type Session struct {
	ID          int      `json:"id,omitempty"`
	Name        string   `json:"name,omitempty"`
	Email       string   `json:"email,omitempty"`
	Role        string   `json:"role,omitempty"`
	Token       string   `json:"token,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// Valid reports whether the session identifies anyone.
func (s *Session) Valid() bool {
	return s != nil && (strings.TrimSpace(s.Email) != "" || strings.TrimSpace(s.Token) != "")
}

// IsAdmin reports whether the session role is ADMIN.
func (s *Session) IsAdmin() bool {
	return s != nil && IsAdmin(s.Role)
}
