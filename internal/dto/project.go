package dto

import (
	"time"

	"github.com/yamabiko/project-management-api/internal/models"
)

// ProjectResponse is the public shape of a project.
type ProjectResponse struct {
	ID                       uint64         `json:"id"`
	Name                     string         `json:"name"`
	Description              string         `json:"description"`
	ProblemStatement         string         `json:"problem_statement"`
	ProblemStatementApproved bool           `json:"problem_statement_approved"`
	Leader                   UserResponse   `json:"leader"`
	Members                  []UserResponse `json:"members"`
	CreatedAt                time.Time      `json:"created_at"`
	UpdatedAt                time.Time      `json:"updated_at"`
}

// CreateProjectRequest is the payload for creating a project.
type CreateProjectRequest struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	ProblemStatement string `json:"problem_statement"`
}

// UpdateProjectRequest is the payload for editing project fields.
type UpdateProjectRequest struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	ProblemStatement string `json:"problem_statement"`
}

// ToProjectResponse converts a project model, flattening memberships to users.
func ToProjectResponse(project *models.Project) ProjectResponse {
	members := make([]UserResponse, 0, len(project.Members))
	for i := range project.Members {
		members = append(members, ToUserResponse(&project.Members[i].User))
	}
	return ProjectResponse{
		ID:                       project.ID,
		Name:                     project.Name,
		Description:              project.Description,
		ProblemStatement:         project.ProblemStatement,
		ProblemStatementApproved: project.ProblemStatementApproved,
		Leader:                   ToUserResponse(&project.Leader),
		Members:                  members,
		CreatedAt:                project.CreatedAt,
		UpdatedAt:                project.UpdatedAt,
	}
}

// ToProjectResponses converts a slice of project models.
func ToProjectResponses(projects []models.Project) []ProjectResponse {
	responses := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		responses = append(responses, ToProjectResponse(&projects[i]))
	}
	return responses
}
