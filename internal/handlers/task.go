package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yamabiko/project-management-api/internal/dto"
	"github.com/yamabiko/project-management-api/internal/errors"
	"github.com/yamabiko/project-management-api/internal/models"
	"github.com/yamabiko/project-management-api/internal/services"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(ident, services.CreateTaskInput{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskResponse(task))
}

// MyTasks handles GET /api/tasks/my-tasks with an optional ?status= filter.
func (h *TaskHandler) MyTasks(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	status, ok := parseStatusQuery(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListMine(ident, status)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponses(tasks))
}

// TasksByProject handles GET /api/tasks/project/:project_id with an
// optional ?status= filter.
func (h *TaskHandler) TasksByProject(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "project_id")
	if !ok {
		return
	}
	status, ok := parseStatusQuery(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListByProject(ident, projectID, status)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponses(tasks))
}

// UpdateProgress handles PUT /api/tasks/:id/update-progress
func (h *TaskHandler) UpdateProgress(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProgressPercentage == nil {
		errors.BadRequest(c, "progress_percentage is required")
		return
	}

	task, err := h.taskService.UpdateProgress(ident, taskID, *req.ProgressPercentage)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// Submit handles PUT /api/tasks/:id/submit
func (h *TaskHandler) Submit(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Submit(ident, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// Review handles PUT /api/tasks/:id/review?approved=true|false
func (h *TaskHandler) Review(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		errors.BadRequest(c, "approved query parameter must be true or false")
		return
	}

	task, err := h.taskService.Review(ident, taskID, approved)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// Reassign handles PUT /api/tasks/:id/reassign/:user_id
func (h *TaskHandler) Reassign(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	task, err := h.taskService.Reassign(ident, taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// SuggestTasks handles POST /api/projects/:id/suggest-tasks
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	suggestions, err := h.taskService.SuggestTasks(c.Request.Context(), ident, projectID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	responses := make([]dto.SuggestedTaskResponse, 0, len(suggestions))
	for _, s := range suggestions {
		responses = append(responses, dto.SuggestedTaskResponse{
			Title:       s.Title,
			Description: s.Description,
			DueDate:     s.DueDate,
		})
	}
	c.JSON(http.StatusOK, responses)
}

func parseStatusQuery(c *gin.Context) (*models.TaskStatus, bool) {
	raw := c.Query("status")
	if raw == "" {
		return nil, true
	}
	status := models.TaskStatus(raw)
	switch status {
	case models.TaskStatusPending, models.TaskStatusInProgress, models.TaskStatusUnderReview,
		models.TaskStatusCompleted, models.TaskStatusRejected:
		return &status, true
	default:
		errors.BadRequest(c, "Unknown task status")
		return nil, false
	}
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, services.ErrTaskNotFound):
		errors.NotFound(c, "Task not found")
	case stderrors.Is(err, services.ErrProjectNotFound):
		errors.NotFound(c, "Project not found")
	case stderrors.Is(err, services.ErrUserNotFound):
		errors.NotFound(c, "User not found")
	case stderrors.Is(err, services.ErrTaskTitleRequired),
		stderrors.Is(err, services.ErrInvalidProgressRange),
		stderrors.Is(err, services.ErrAssigneeNotMember),
		stderrors.Is(err, services.ErrProblemStatementEmpty),
		stderrors.Is(err, services.ErrAINoTasksSuggested):
		errors.BadRequest(c, err.Error())
	case stderrors.Is(err, services.ErrNotProjectLeader),
		stderrors.Is(err, services.ErrNotProjectParticipant),
		stderrors.Is(err, services.ErrNotTaskAssignee),
		stderrors.Is(err, services.ErrNotAssigneeOrLeader):
		errors.Forbidden(c, err.Error())
	case stderrors.Is(err, services.ErrAIServiceNotConfigured):
		errors.ServiceUnavailable(c, err.Error())
	default:
		errors.InternalError(c, err)
	}
}
