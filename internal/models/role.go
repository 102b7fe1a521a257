package models

import "strings"

type RoleName string

const (
	RoleLeader RoleName = "LEADER"
	RoleMember RoleName = "MEMBER"
)

type Role struct {
	ID   uint64   `gorm:"primarykey" json:"id"`
	Name RoleName `gorm:"type:varchar(20);uniqueIndex;not null" json:"name"`
}

// ParseRoleName maps free-form role input onto the closed role set.
// Unrecognized input resolves to MEMBER.
func ParseRoleName(s string) RoleName {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "leader":
		return RoleLeader
	default:
		return RoleMember
	}
}
