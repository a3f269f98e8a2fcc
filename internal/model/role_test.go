package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		name     string
		claimed  string
		required string
		want     bool
	}{
		{"free meets free", RoleFree, RoleFree, true},
		{"free below premium", RoleFree, RolePremium, false},
		{"free below admin", RoleFree, RoleAdmin, false},
		{"premium meets free", RolePremium, RoleFree, true},
		{"premium below admin", RolePremium, RoleAdmin, false},
		{"admin meets free", RoleAdmin, RoleFree, true},
		{"admin meets premium", RoleAdmin, RolePremium, true},
		{"admin meets admin", RoleAdmin, RoleAdmin, true},
		{"unknown role ranks as free", "superuser", RoleFree, true},
		{"unknown role fails closed for admin", "superuser", RoleAdmin, false},
		{"empty role fails closed", "", RoleAdmin, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleAtLeast(tt.claimed, tt.required))
		})
	}
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleFree))
	assert.True(t, ValidRole(RolePremium))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole("owner"))
	assert.False(t, ValidRole(""))
}
