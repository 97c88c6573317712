package rbac_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/coleta-api/internal/domain/entity"
	"github.com/jhoicas/coleta-api/internal/domain/rbac"
)

func TestAllowed(t *testing.T) {
	cases := []struct {
		role entity.Role
		perm rbac.Permission
		want bool
	}{
		{entity.RoleAdmin, rbac.UsersDelete, true},
		{entity.RoleColetor, rbac.RunsExecute, true},
		{entity.RoleColetor, rbac.ReportsView, false},
		{entity.RoleGestorOperacao, rbac.RunsExecute, false},
		{entity.RoleAlmoxarife, rbac.StockMovement, true},
		{entity.RoleAlmoxarife, rbac.SortingClose, false},
		{entity.RoleSupervisor, rbac.SortingClose, true},
		{entity.RoleTriagem, rbac.SortingCreate, true},
		{entity.RoleTriagem, rbac.SortingClose, false},
		{entity.RoleVisualizador, rbac.StockRead, true},
		{entity.RoleVisualizador, rbac.StockMovement, false},
		{entity.Role("DESCONHECIDO"), rbac.DashboardView, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.role)+"/"+string(tc.perm), func(t *testing.T) {
			assert.Equal(t, tc.want, rbac.Allowed(tc.role, tc.perm))
		})
	}
}

func TestPermissions(t *testing.T) {
	admin := rbac.Permissions(entity.RoleAdmin)
	assert.Len(t, admin, 50)
	assert.True(t, sort.SliceIsSorted(admin, func(i, j int) bool { return admin[i] < admin[j] }))

	assert.Equal(t, []rbac.Permission{rbac.MaterialTypesRead, rbac.RunsExecute, rbac.RunsRead},
		rbac.Permissions(entity.RoleColetor))
	assert.Empty(t, rbac.Permissions(entity.Role("X")))

	// Modificar la copia no altera la tabla.
	perms := rbac.Permissions(entity.RoleColetor)
	perms[0] = rbac.UsersDelete
	assert.False(t, rbac.Allowed(entity.RoleColetor, rbac.UsersDelete))
}

func TestTodosLosRolesTienenEntrada(t *testing.T) {
	for _, r := range entity.Roles {
		assert.NotEmpty(t, rbac.Permissions(r), "rol %s sin permisos", r)
	}
}
