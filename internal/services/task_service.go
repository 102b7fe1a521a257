package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yamabiko/project-management-api/internal/constants"
	"github.com/yamabiko/project-management-api/internal/identity"
	"github.com/yamabiko/project-management-api/internal/models"
	"github.com/yamabiko/project-management-api/internal/repository"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTaskTitleRequired      = errors.New("title is required")
	ErrNotTaskAssignee        = errors.New("you are not assigned to this task")
	ErrNotAssigneeOrLeader    = errors.New("only the assignee or the project leader can update progress")
	ErrInvalidProgressRange   = errors.New("progress percentage must be between 0 and 100")
	ErrAssigneeNotMember      = errors.New("assigned user is not a member of this project")
	ErrProblemStatementEmpty  = errors.New("project has no problem statement to decompose")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksSuggested     = errors.New("AI did not suggest any tasks")
)

// TaskService drives the task workflow: creation by the project leader,
// progress-derived status, submission, review and reassignment.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	aiService   *AIService
}

// NewTaskService creates a new TaskService. aiService may be nil when task
// suggestion is not configured.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		aiService:   aiService,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	ProjectID   uint64
	Title       string
	Description string
	StartDate   *time.Time
	DueDate     *time.Time
	AssigneeID  *uint64
}

// Create creates a task in PENDING state with zero progress. Only the
// project leader may create tasks; an assignee, when given, must already be
// a member of the project.
func (s *TaskService) Create(ident identity.Identity, input CreateTaskInput) (*models.Task, error) {
	project, err := s.findProject(input.ProjectID)
	if err != nil {
		return nil, err
	}
	if !project.IsLeader(ident.UserID) {
		return nil, ErrNotProjectLeader
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTaskTitleRequired
	}

	var assigneeID *uint64
	if input.AssigneeID != nil {
		assignee, err := s.userRepo.FindByID(*input.AssigneeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to find assignee: %w", err)
		}

		if !project.HasMember(assignee.ID) {
			return nil, ErrAssigneeNotMember
		}
		assigneeID = &assignee.ID
	}

	task := &models.Task{
		Title:              input.Title,
		Description:        input.Description,
		Status:             models.TaskStatusPending,
		ProgressPercentage: 0,
		StartDate:          input.StartDate,
		DueDate:            input.DueDate,
		ProjectID:          project.ID,
		AssignedToID:       assigneeID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.findTask(task.ID)
}

// UpdateProgress sets the progress percentage and derives the status from
// it. Progress overrides whatever status the task held before; calling
// twice with the same value leaves state unchanged but still refreshes the
// update timestamp.
func (s *TaskService) UpdateProgress(ident identity.Identity, taskID uint64, progress int) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !task.IsAssignee(ident.UserID) && !task.Project.IsLeader(ident.UserID) {
		return nil, ErrNotAssigneeOrLeader
	}

	if progress < 0 || progress > 100 {
		return nil, ErrInvalidProgressRange
	}

	task.ProgressPercentage = progress
	task.Status = models.StatusForProgress(progress)

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task progress: %w", err)
	}

	return task, nil
}

// Submit hands the task over for review: progress 100, status UNDER_REVIEW.
// Only the current assignee can submit; the leader cannot submit on a
// member's behalf.
func (s *TaskService) Submit(ident identity.Identity, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !task.IsAssignee(ident.UserID) {
		return nil, ErrNotTaskAssignee
	}

	task.ProgressPercentage = 100
	task.Status = models.TaskStatusUnderReview

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to submit task: %w", err)
	}

	return task, nil
}

// Review completes or rejects a submitted task. Approval records the
// completion time and leaves progress as-is; rejection sends the task back
// with the fixed rejected-progress marker.
func (s *TaskService) Review(ident identity.Identity, taskID uint64, approved bool) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !task.Project.IsLeader(ident.UserID) {
		return nil, ErrNotProjectLeader
	}

	if approved {
		now := time.Now()
		task.Status = models.TaskStatusCompleted
		task.CompletedDate = &now
	} else {
		task.Status = models.TaskStatusRejected
		task.ProgressPercentage = models.RejectedProgress
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to review task: %w", err)
	}

	return task, nil
}

// Reassign hands the task to another member. A rejected task resumes work
// as IN_PROGRESS; any other status is left untouched.
func (s *TaskService) Reassign(ident identity.Identity, taskID, newAssigneeID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !task.Project.IsLeader(ident.UserID) {
		return nil, ErrNotProjectLeader
	}

	assignee, err := s.userRepo.FindByID(newAssigneeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find assignee: %w", err)
	}

	if !task.Project.HasMember(assignee.ID) {
		return nil, ErrAssigneeNotMember
	}

	task.AssignedToID = &assignee.ID
	task.AssignedTo = assignee
	if task.Status == models.TaskStatusRejected {
		task.Status = models.TaskStatusInProgress
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to reassign task: %w", err)
	}

	return task, nil
}

// ListMine returns the tasks assigned to the caller, optionally filtered by
// status.
func (s *TaskService) ListMine(ident identity.Identity, status *models.TaskStatus) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByAssignee(ident.UserID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListByProject returns a project's tasks. Non-participants are refused
// rather than given an empty result.
func (s *TaskService) ListByProject(ident identity.Identity, projectID uint64, status *models.TaskStatus) ([]models.Task, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsParticipant(ident.UserID) {
		return nil, ErrNotProjectParticipant
	}

	tasks, err := s.taskRepo.ListByProject(project.ID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list project tasks: %w", err)
	}
	return tasks, nil
}

// SuggestTasks asks the AI service to decompose the project's problem
// statement into task suggestions. Leader only; nothing is persisted.
func (s *TaskService) SuggestTasks(ctx context.Context, ident identity.Identity, projectID uint64) ([]SuggestedTask, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsLeader(ident.UserID) {
		return nil, ErrNotProjectLeader
	}
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(project.ProblemStatement) == "" {
		return nil, ErrProblemStatementEmpty
	}

	suggestions, err := s.aiService.SuggestTasks(ctx, project.Name, project.ProblemStatement)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest tasks: %w", err)
	}

	valid := make([]SuggestedTask, 0, len(suggestions))
	for _, suggestion := range suggestions {
		if strings.TrimSpace(suggestion.Title) == "" {
			continue
		}
		valid = append(valid, suggestion)
		if len(valid) == constants.MaxSuggestedTasks {
			break
		}
	}

	if len(valid) == 0 {
		return nil, ErrAINoTasksSuggested
	}

	return valid, nil
}

func (s *TaskService) findProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (s *TaskService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
