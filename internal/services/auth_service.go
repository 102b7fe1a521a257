package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yamabiko/project-management-api/internal/constants"
	"github.com/yamabiko/project-management-api/internal/identity"
	"github.com/yamabiko/project-management-api/internal/models"
	"github.com/yamabiko/project-management-api/internal/repository"
)

var (
	ErrUsernameTaken        = errors.New("username is already taken")
	ErrEmailTaken           = errors.New("email is already in use")
	ErrUsernameRequired     = errors.New("username is required")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles signup, credential verification and token issuance.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *identity.Manager
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *identity.Manager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// SignupInput represents the required information to create a new user.
// Roles holds free-form role names; anything that is not "leader" maps to
// MEMBER, and an empty set defaults to MEMBER.
type SignupInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Roles    []string
}

// Signup creates a new user with the resolved role set.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	taken, err := s.userRepo.ExistsByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = s.userRepo.ExistsByEmail(input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	roles, err := s.resolveRoles(input.Roles)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        input.Email,
		PasswordHash: string(hashed),
		FullName:     input.FullName,
		Roles:        roles,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// SignInInput holds the credentials for authentication.
type SignInInput struct {
	Username string
	Password string
}

// SignIn verifies credentials and returns the user and a signed access token.
func (s *AuthService) SignIn(input SignInInput) (*models.User, string, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// resolveRoles maps the requested role names onto stored role records.
// The mapping is total: unmatched names resolve to MEMBER, and an empty
// request grants MEMBER alone.
func (s *AuthService) resolveRoles(requested []string) ([]models.Role, error) {
	names := make(map[models.RoleName]struct{})
	if len(requested) == 0 {
		names[models.RoleMember] = struct{}{}
	} else {
		for _, raw := range requested {
			names[models.ParseRoleName(raw)] = struct{}{}
		}
	}

	roles := make([]models.Role, 0, len(names))
	for name := range names {
		role, err := s.userRepo.FindRoleByName(name)
		if err != nil {
			return nil, fmt.Errorf("role %s not found in database: %w", name, err)
		}
		roles = append(roles, *role)
	}

	return roles, nil
}
