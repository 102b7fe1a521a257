package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoleName(t *testing.T) {
	tests := []struct {
		input    string
		expected RoleName
	}{
		{"leader", RoleLeader},
		{"LEADER", RoleLeader},
		{"LeAdEr", RoleLeader},
		{"member", RoleMember},
		{"MEMBER", RoleMember},
		{"", RoleMember},
		{"admin", RoleMember},
		{"something-else", RoleMember},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseRoleName(tt.input), "input %q", tt.input)
	}
}
