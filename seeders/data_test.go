package seeders

import (
	"testing"

	"hr-system/internal/authz"

	"github.com/stretchr/testify/assert"
)

func TestRolesUseKnownPermissions(t *testing.T) {
	for _, r := range rolesData {
		for _, p := range r.Permissions {
			_, ok := authz.All[p]
			assert.True(t, ok, "роль %s: неизвестное право %s", r.Name, p)
		}
	}
}

func TestSingleCompOffLeaveType(t *testing.T) {
	count := 0
	for _, lt := range leaveTypesData {
		if lt.IsCompOff {
			count++
			assert.Zero(t, lt.AnnualQuota, "у отгула нет годовой квоты")
		}
	}
	assert.Equal(t, 1, count)
}
