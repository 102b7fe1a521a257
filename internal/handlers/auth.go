package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yamabiko/project-management-api/internal/constants"
	"github.com/yamabiko/project-management-api/internal/dto"
	"github.com/yamabiko/project-management-api/internal/errors"
	"github.com/yamabiko/project-management-api/internal/identity"
	"github.com/yamabiko/project-management-api/internal/middleware"
	"github.com/yamabiko/project-management-api/internal/services"
)

// AuthHandler handles signup, signin and session endpoints.
type AuthHandler struct {
	authService *services.AuthService
	tokens      *identity.Manager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService, tokens *identity.Manager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
	}
}

type signupRequest struct {
	Username string   `json:"username" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required"`
	FullName string   `json:"full_name"`
	Roles    []string `json:"roles"`
}

type signInRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Signup(services.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Roles:    req.Roles,
	})
	if err != nil {
		switch {
		case stderrors.Is(err, services.ErrUsernameTaken), stderrors.Is(err, services.ErrEmailTaken):
			errors.Conflict(c, err.Error())
		case stderrors.Is(err, services.ErrUsernameRequired), stderrors.Is(err, services.ErrPasswordTooShort):
			errors.BadRequest(c, err.Error())
		default:
			errors.InternalError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// SignIn handles POST /api/auth/signin and sets the access token cookie.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, "Invalid request body")
		return
	}

	user, token, err := h.authService.SignIn(services.SignInInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if stderrors.Is(err, services.ErrInvalidCredentials) {
			errors.Unauthorized(c, "Invalid username or password")
			return
		}
		errors.InternalError(c, err)
		return
	}

	c.SetCookie(constants.AccessTokenCookie, token, int(h.tokens.Expiry().Seconds()), "/", "", false, true)

	roles := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, string(role.Name))
	}
	c.JSON(http.StatusOK, dto.SignInResponse{
		Token:    token,
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    roles,
	})
}

// SignOut handles POST /api/auth/signout by expiring the cookie.
func (h *AuthHandler) SignOut(c *gin.Context) {
	c.SetCookie(constants.AccessTokenCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Signed out"})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		errors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(ident.UserID)
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
