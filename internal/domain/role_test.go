package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
)

func TestNewRoleSetNormalizes(t *testing.T) {
	set := domain.NewRoleSet(" Admin ", "admin", "", "BUYER")
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []string{"admin", "buyer"}, set.Strings())
	assert.True(t, set.Has("ADMIN"))
	assert.False(t, set.Has("agency"))
	assert.Equal(t, "[admin buyer]", set.String())
}

func TestRoleSetZeroValue(t *testing.T) {
	var set domain.RoleSet
	assert.True(t, set.IsEmpty())
	assert.False(t, set.Has("admin"))
	assert.Empty(t, set.Slice())
	assert.False(t, set.Intersects(domain.RolesOf(domain.RoleAdmin)))
	assert.True(t, domain.RolesOf(domain.RoleAdmin).Contains(set))
}

func TestRoleSetAlgebra(t *testing.T) {
	buyer := domain.RolesOf(domain.RoleBuyer)
	both := domain.NewRoleSet("buyer", "agency")

	assert.True(t, both.Intersects(buyer))
	assert.True(t, buyer.Intersects(both))
	assert.True(t, both.Contains(buyer))
	assert.False(t, buyer.Contains(both))

	union := buyer.Union(domain.NewRoleSet("Admin"))
	assert.Equal(t, []string{"admin", "buyer"}, union.Strings())
	assert.Equal(t, 1, buyer.Len(), "union does not mutate its receiver")
}

func TestPrimaryRolePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  domain.Role
	}{
		{name: "none", roles: nil, want: domain.RoleGuest},
		{name: "unknown only", roles: []string{"viewer"}, want: domain.RoleGuest},
		{name: "agency", roles: []string{"agency"}, want: domain.RoleAgency},
		{name: "buyer beats agency", roles: []string{"agency", "buyer"}, want: domain.RoleBuyer},
		{name: "admin beats all", roles: []string{"agency", "buyer", "ADMIN"}, want: domain.RoleAdmin},
		{name: "explicit guest", roles: []string{"guest"}, want: domain.RoleGuest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.PrimaryRole(domain.NewRoleSet(tt.roles...)))
		})
	}
}
