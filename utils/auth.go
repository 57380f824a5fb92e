package utils

import (
	"github.com/bwmarrin/discordgo"
)

// Permission levels, lowest first.
type PermissionLevel int

const (
	UserPermission PermissionLevel = iota
	ModeratorPermission
	AdminPermission
)

// contains checks if a slice of strings contains an element.
func contains(slice []string, item string) bool {
	for _, a := range slice {
		if a == item {
			return true
		}
	}
	return false
}

// CheckPermission returns the highest permission level of a member. Discord
// permission flags grant the level directly; the configured role lists grant
// it to members without the flag.
func CheckPermission(member *discordgo.Member, adminRoleIDs, moderatorRoleIDs []string) PermissionLevel {
	if member == nil {
		return UserPermission
	}

	if member.Permissions&discordgo.PermissionAdministrator != 0 {
		return AdminPermission
	}
	for _, roleID := range member.Roles {
		if contains(adminRoleIDs, roleID) {
			return AdminPermission
		}
	}

	if member.Permissions&discordgo.PermissionModerateMembers != 0 {
		return ModeratorPermission
	}
	for _, roleID := range member.Roles {
		if contains(moderatorRoleIDs, roleID) {
			return ModeratorPermission
		}
	}

	return UserPermission
}

// HasPermission reports whether member reaches at least level.
func HasPermission(member *discordgo.Member, level PermissionLevel, adminRoleIDs, moderatorRoleIDs []string) bool {
	return CheckPermission(member, adminRoleIDs, moderatorRoleIDs) >= level
}
