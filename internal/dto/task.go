package dto

import (
	"time"

	"github.com/yamabiko/project-management-api/internal/models"
)

// TaskResponse is the public shape of a task.
type TaskResponse struct {
	ID                 uint64        `json:"id"`
	Title              string        `json:"title"`
	Description        string        `json:"description"`
	Status             string        `json:"status"`
	ProgressPercentage int           `json:"progress_percentage"`
	StartDate          *time.Time    `json:"start_date,omitempty"`
	DueDate            *time.Time    `json:"due_date,omitempty"`
	CompletedDate      *time.Time    `json:"completed_date,omitempty"`
	ProjectID          uint64        `json:"project_id"`
	AssignedTo         *UserResponse `json:"assigned_to,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// CreateTaskRequest is the payload for creating a task.
type CreateTaskRequest struct {
	ProjectID   uint64     `json:"project_id" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  *uint64    `json:"assignee_id"`
}

// UpdateProgressRequest carries the new completion percentage.
type UpdateProgressRequest struct {
	ProgressPercentage *int `json:"progress_percentage" binding:"required"`
}

// SuggestedTaskResponse is one AI-proposed task.
type SuggestedTaskResponse struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// ToTaskResponse converts a task model to its response shape.
func ToTaskResponse(task *models.Task) TaskResponse {
	response := TaskResponse{
		ID:                 task.ID,
		Title:              task.Title,
		Description:        task.Description,
		Status:             string(task.Status),
		ProgressPercentage: task.ProgressPercentage,
		StartDate:          task.StartDate,
		DueDate:            task.DueDate,
		CompletedDate:      task.CompletedDate,
		ProjectID:          task.ProjectID,
		CreatedAt:          task.CreatedAt,
		UpdatedAt:          task.UpdatedAt,
	}
	if task.AssignedTo != nil {
		assignee := ToUserResponse(task.AssignedTo)
		response.AssignedTo = &assignee
	}
	return response
}

// ToTaskResponses converts a slice of task models.
func ToTaskResponses(tasks []models.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, ToTaskResponse(&tasks[i]))
	}
	return responses
}
