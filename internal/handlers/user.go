package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yamabiko/project-management-api/internal/dto"
	"github.com/yamabiko/project-management-api/internal/errors"
	"github.com/yamabiko/project-management-api/internal/services"
)

// UserHandler handles user query endpoints.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles GET /api/users; leaders only.
func (h *UserHandler) List(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}

	users, err := h.userService.List(ident)
	if err != nil {
		if stderrors.Is(err, services.ErrLeaderRoleRequired) {
			errors.Forbidden(c, err.Error())
			return
		}
		errors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponses(users))
}

// Profile handles GET /api/users/profile
func (h *UserHandler) Profile(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}

	user, err := h.userService.Profile(ident)
	if err != nil {
		if stderrors.Is(err, services.ErrUserNotFound) {
			errors.NotFound(c, "User not found")
			return
		}
		errors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// ProjectUsers handles GET /api/users/project/:project_id
func (h *UserHandler) ProjectUsers(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "project_id")
	if !ok {
		return
	}

	users, err := h.userService.ListForProject(ident, projectID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponses(users))
}
