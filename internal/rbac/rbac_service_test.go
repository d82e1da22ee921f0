package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-lms/internal/domain"
	"go-lms/internal/rbac"
	"go-lms/internal/rbac/infra"
)

type fakeRBACRepository struct {
	rolePerms    []rbac.RolePermissionRow
	rolePermsErr error

	permissions []rbac.PermissionRow
	updatedRole string
	updatedIDs  []string
}

func (f *fakeRBACRepository) GetRolePermissions() ([]rbac.RolePermissionRow, error) {
	return f.rolePerms, f.rolePermsErr
}

func (f *fakeRBACRepository) ListPermissions() ([]rbac.PermissionRow, error) {
	return f.permissions, nil
}

func (f *fakeRBACRepository) GetPermissionsByRole(role string) ([]rbac.PermissionRow, error) {
	return f.permissions, nil
}

func (f *fakeRBACRepository) UpdateRolePermissions(role string, permIDs []string) error {
	f.updatedRole = role
	f.updatedIDs = permIDs
	return nil
}

func newRBACService(t *testing.T, repo rbac.Repository) rbac.Service {
	t.Helper()

	enforcer, err := infra.NewEnforcer()
	assert.NoError(t, err)

	return rbac.NewService(repo, enforcer)
}

func TestRBACService_Enforce(t *testing.T) {
	repo := &fakeRBACRepository{
		rolePerms: []rbac.RolePermissionRow{
			{Role: domain.RoleHRAdmin, Resource: "leave", Action: "manage"},
			{Role: domain.RoleEmployee, Resource: "leave", Action: "create"},
		},
	}
	service := newRBACService(t, repo)

	t.Run("success - role with matching permission", func(t *testing.T) {
		allowed, err := service.Enforce(domain.EnforceRequest{
			EmployeeID: "emp-1",
			Role:       domain.RoleHRAdmin,
			Resource:   "leave",
			Action:     "manage",
		})

		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("negative - role without the permission", func(t *testing.T) {
		allowed, err := service.Enforce(domain.EnforceRequest{
			EmployeeID: "emp-2",
			Role:       domain.RoleEmployee,
			Resource:   "leave",
			Action:     "manage",
		})

		assert.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("negative - unknown role denied", func(t *testing.T) {
		allowed, err := service.Enforce(domain.EnforceRequest{
			EmployeeID: "emp-3",
			Role:       "CONTRACTOR",
			Resource:   "leave",
			Action:     "create",
		})

		assert.NoError(t, err)
		assert.False(t, allowed)
	})
}

func TestRBACService_EnforceReloadsPolicy(t *testing.T) {
	repo := &fakeRBACRepository{}
	service := newRBACService(t, repo)

	allowed, err := service.Enforce(domain.EnforceRequest{
		EmployeeID: "emp-1",
		Role:       domain.RoleHRHead,
		Resource:   "payroll",
		Action:     "manage",
	})
	assert.NoError(t, err)
	assert.False(t, allowed)

	// Permission granted after the first check is picked up without restart.
	repo.rolePerms = []rbac.RolePermissionRow{
		{Role: domain.RoleHRHead, Resource: "payroll", Action: "manage"},
	}

	allowed, err = service.Enforce(domain.EnforceRequest{
		EmployeeID: "emp-1",
		Role:       domain.RoleHRHead,
		Resource:   "payroll",
		Action:     "manage",
	})
	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestRBACService_UpdateRolePermissions(t *testing.T) {
	repo := &fakeRBACRepository{}
	service := newRBACService(t, repo)

	t.Run("success", func(t *testing.T) {
		err := service.UpdateRolePermissions(domain.RoleDeptHead, []string{"perm-1", "perm-2"})

		assert.NoError(t, err)
		assert.Equal(t, domain.RoleDeptHead, repo.updatedRole)
		assert.Len(t, repo.updatedIDs, 2)
	})

	t.Run("negative - unknown role rejected", func(t *testing.T) {
		err := service.UpdateRolePermissions("SUPERVISOR", []string{"perm-1"})

		assert.ErrorIs(t, err, rbac.ErrUnknownRole)
	})
}
