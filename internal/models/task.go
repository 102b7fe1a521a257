package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending     TaskStatus = "PENDING"
	TaskStatusInProgress  TaskStatus = "IN_PROGRESS"
	TaskStatusUnderReview TaskStatus = "UNDER_REVIEW"
	TaskStatusCompleted   TaskStatus = "COMPLETED"
	TaskStatusRejected    TaskStatus = "REJECTED"
)

// RejectedProgress is the fixed progress a task is sent back with on a
// rejected review.
const RejectedProgress = 75

// StatusForProgress derives a task's status from its progress percentage.
// Progress is the authoritative signal: 0 is pending, 100 is waiting for
// review, anything in between is in progress.
func StatusForProgress(progress int) TaskStatus {
	switch {
	case progress == 0:
		return TaskStatusPending
	case progress < 100:
		return TaskStatusInProgress
	default:
		return TaskStatusUnderReview
	}
}

type Task struct {
	ID                 uint64         `gorm:"primarykey" json:"id"`
	Title              string         `gorm:"not null" json:"title"`
	Description        string         `gorm:"type:text" json:"description"`
	Status             TaskStatus     `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	ProgressPercentage int            `gorm:"not null;default:0" json:"progress_percentage"`
	StartDate          *time.Time     `json:"start_date"`
	DueDate            *time.Time     `json:"due_date"`
	CompletedDate      *time.Time     `json:"completed_date"`
	ProjectID          uint64         `gorm:"not null" json:"project_id"`
	AssignedToID       *uint64        `json:"assigned_to_id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project    Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	AssignedTo *User   `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
}

// IsAssignee reports whether the given user is the current assignee.
// Unassigned tasks have no assignee, so this is false for everyone.
func (t *Task) IsAssignee(userID uint64) bool {
	return t.AssignedToID != nil && *t.AssignedToID == userID
}
