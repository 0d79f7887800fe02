package service

import (
	"github.com/zenops/zen-ops-console/internal/dto"
	"github.com/zenops/zen-ops-console/internal/models"
)

type navEntry struct {
	label      string
	adminLabel string
	path       string
	adminOnly  bool
}

var navigation = []navEntry{
	{label: "Home", path: "/home"},
	{label: "Assignments", path: "/assignments"},
	{label: "Invoices / Finance", path: "/invoices", adminOnly: true},
	{label: "Settings", adminLabel: "Settings / Admin", path: "/settings"},
}

// ShellService builds the layout chrome around every console page.
type ShellService struct{}

// NewShellService constructs a ShellService.
func NewShellService() *ShellService {
	return &ShellService{}
}

// Shell returns the sidebar for sess. Admin-only entries are omitted for
// everyone else, including anonymous visitors.
func (s *ShellService) Shell(sess *models.Session) dto.ShellResponse {
	admin := sess.IsAdmin()
	nav := make([]dto.NavItem, 0, len(navigation))
	for _, entry := range navigation {
		if entry.adminOnly && !admin {
			continue
		}
		label := entry.label
		if admin && entry.adminLabel != "" {
			label = entry.adminLabel
		}
		nav = append(nav, dto.NavItem{Label: label, Path: entry.path})
	}
	return dto.ShellResponse{User: sess, IsAdmin: admin, Nav: nav}
}
