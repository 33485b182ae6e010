package rbac

import (
	"testing"

	"github.com/officehr/payroll-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAuthorizer(t *testing.T) {
	authz, err := NewDefaultAuthorizer()
	require.NoError(t, err)

	tests := []struct {
		role     user.Role
		resource user.Resource
		action   user.Action
		allowed  bool
	}{
		{user.RoleAdmin, user.ResourceSettings, user.ActionEdit, true},
		{user.RoleHR, user.ResourcePayroll, user.ActionCreate, true},
		{user.RoleHR, user.ResourcePayroll, user.ActionDelete, false},
		{user.RoleHR, user.ResourceSettings, user.ActionEdit, false},
		{user.RoleAccountant, user.ResourceExpenses, user.ActionDelete, true},
		{user.RoleAccountant, user.ResourceEmployees, user.ActionCreate, false},
		{user.RoleManager, user.ResourceAttendance, user.ActionEdit, true},
		{user.RoleEmployee, user.ResourceAttendance, user.ActionCreate, true},
		{user.RoleEmployee, user.ResourcePayroll, user.ActionView, false},
		{user.Role("intruder"), user.ResourceEmployees, user.ActionView, false},
	}
	for _, tt := range tests {
		allowed, err := authz.Enforce(tt.role, tt.resource, tt.action)
		require.NoError(t, err)
		assert.Equal(t, tt.allowed, allowed, "%s %s.%s", tt.role, tt.resource, tt.action)
	}
}

func TestNewAuthorizer_RejectsMalformedPolicy(t *testing.T) {
	_, err := NewAuthorizer([][]string{{"admin", "employees"}})
	assert.Error(t, err)
}
