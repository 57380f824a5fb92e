package utils

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestCheckPermission(t *testing.T) {
	admins := []string{"r-admin"}
	mods := []string{"r-mod"}

	tests := []struct {
		name   string
		member *discordgo.Member
		want   PermissionLevel
	}{
		{"nil member", nil, UserPermission},
		{"plain member", &discordgo.Member{Roles: []string{"r-other"}}, UserPermission},
		{"administrator flag", &discordgo.Member{Permissions: discordgo.PermissionAdministrator}, AdminPermission},
		{"admin role", &discordgo.Member{Roles: []string{"r-admin"}}, AdminPermission},
		{"moderate members flag", &discordgo.Member{Permissions: discordgo.PermissionModerateMembers}, ModeratorPermission},
		{"moderator role", &discordgo.Member{Roles: []string{"r-mod"}}, ModeratorPermission},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPermission(tt.member, admins, mods))
		})
	}

	assert.True(t, HasPermission(&discordgo.Member{Roles: []string{"r-admin"}}, ModeratorPermission, admins, mods))
	assert.False(t, HasPermission(&discordgo.Member{Roles: []string{"r-mod"}}, AdminPermission, admins, mods))
}
