package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yamabiko/project-management-api/internal/dto"
	"github.com/yamabiko/project-management-api/internal/errors"
	"github.com/yamabiko/project-management-api/internal/identity"
	"github.com/yamabiko/project-management-api/internal/middleware"
	"github.com/yamabiko/project-management-api/internal/services"
)

// ProjectHandler handles project endpoints.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Create handles POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.Create(ident, services.CreateProjectInput{
		Name:             req.Name,
		Description:      req.Description,
		ProblemStatement: req.ProblemStatement,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectResponse(project))
}

// List handles GET /api/projects and returns the caller's projects.
func (h *ProjectHandler) List(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}

	projects, err := h.projectService.ListForUser(ident.UserID)
	if err != nil {
		errors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponses(projects))
}

// Get handles GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.Get(ident, projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// Update handles PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.Update(ident, projectID, services.UpdateProjectInput{
		Name:             req.Name,
		Description:      req.Description,
		ProblemStatement: req.ProblemStatement,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// ApproveProblemStatement handles PUT /api/projects/:id/approve-problem-statement
func (h *ProjectHandler) ApproveProblemStatement(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.ApproveProblemStatement(ident, projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// AddMember handles POST /api/projects/:id/members/:user_id
func (h *ProjectHandler) AddMember(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.projectService.AddMember(ident, projectID, userID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Member added"})
}

// RemoveMember handles DELETE /api/projects/:id/members/:user_id
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.projectService.RemoveMember(ident, projectID, userID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Member removed"})
}

// Delete handles DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.Delete(ident, projectID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Project deleted"})
}

func requireIdentity(c *gin.Context) (identity.Identity, bool) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		errors.Unauthorized(c, "")
		return identity.Identity{}, false
	}
	return ident, true
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		errors.BadRequest(c, "Invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, services.ErrProjectNotFound):
		errors.NotFound(c, "Project not found")
	case stderrors.Is(err, services.ErrUserNotFound):
		errors.NotFound(c, "User not found")
	case stderrors.Is(err, services.ErrProjectNameRequired):
		errors.BadRequest(c, err.Error())
	case stderrors.Is(err, services.ErrLeaderRoleRequired),
		stderrors.Is(err, services.ErrNotProjectLeader),
		stderrors.Is(err, services.ErrNotProjectParticipant),
		stderrors.Is(err, services.ErrCannotRemoveLeader):
		errors.Forbidden(c, err.Error())
	case stderrors.Is(err, services.ErrAlreadyProjectMember):
		errors.Conflict(c, err.Error())
	case stderrors.Is(err, services.ErrNotProjectMember):
		errors.BadRequest(c, err.Error())
	default:
		errors.InternalError(c, err)
	}
}
