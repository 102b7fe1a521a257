package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID                       uint64         `gorm:"primarykey" json:"id"`
	Name                     string         `gorm:"type:varchar(255);not null" json:"name"`
	Description              string         `gorm:"type:text" json:"description"`
	ProblemStatement         string         `gorm:"type:text" json:"problem_statement"`
	ProblemStatementApproved bool           `gorm:"not null;default:false" json:"problem_statement_approved"`
	LeaderID                 uint64         `gorm:"not null" json:"leader_id"`
	CreatedAt                time.Time      `json:"created_at"`
	UpdatedAt                time.Time      `json:"updated_at"`
	DeletedAt                gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Leader  User            `gorm:"foreignKey:LeaderID" json:"leader,omitempty"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Tasks   []Task          `gorm:"foreignKey:ProjectID" json:"-"`
}

// Membership checks compare user ids, never loaded struct values.
// Members must be preloaded before calling them.

// IsLeader reports whether the given user owns this project.
func (p *Project) IsLeader(userID uint64) bool {
	return p.LeaderID == userID
}

// HasMember reports whether the given user appears in the member set.
func (p *Project) HasMember(userID uint64) bool {
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// IsParticipant reports whether the given user is the leader or a member.
func (p *Project) IsParticipant(userID uint64) bool {
	return p.IsLeader(userID) || p.HasMember(userID)
}
