package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zenops/zen-ops-console/internal/dto"
)

func TestShellNavigationByRole(t *testing.T) {
	svc := NewShellService()

	adminShell := svc.Shell(admin)
	assert.True(t, adminShell.IsAdmin)
	assert.Equal(t, []dto.NavItem{
		{Label: "Home", Path: "/home"},
		{Label: "Assignments", Path: "/assignments"},
		{Label: "Invoices / Finance", Path: "/invoices"},
		{Label: "Settings / Admin", Path: "/settings"},
	}, adminShell.Nav)

	staff := svc.Shell(employee)
	assert.False(t, staff.IsAdmin)
	assert.Equal(t, []dto.NavItem{
		{Label: "Home", Path: "/home"},
		{Label: "Assignments", Path: "/assignments"},
		{Label: "Settings", Path: "/settings"},
	}, staff.Nav)

	anonymous := svc.Shell(nil)
	assert.Nil(t, anonymous.User)
	assert.Len(t, anonymous.Nav, 3)
}
