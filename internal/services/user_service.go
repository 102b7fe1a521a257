package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yamabiko/project-management-api/internal/identity"
	"github.com/yamabiko/project-management-api/internal/models"
	"github.com/yamabiko/project-management-api/internal/repository"
)

// UserService answers the user queries: the directory leaders pick members
// from, the caller's own profile, and a project's member list.
type UserService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, projectRepo repository.ProjectRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
	}
}

// List returns all users. Reserved for LEADER-role callers, who need it to
// pick members and assignees.
func (s *UserService) List(ident identity.Identity) ([]models.User, error) {
	if !ident.HasRole(models.RoleLeader) {
		return nil, ErrLeaderRoleRequired
	}

	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Profile returns the caller's own user record.
func (s *UserService) Profile(ident identity.Identity) (*models.User, error) {
	user, err := s.userRepo.FindByID(ident.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListForProject returns the users in a project's member set. Participants
// only; non-participants are refused explicitly.
func (s *UserService) ListForProject(ident identity.Identity, projectID uint64) ([]models.User, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if !project.IsParticipant(ident.UserID) {
		return nil, ErrNotProjectParticipant
	}

	users := make([]models.User, 0, len(project.Members))
	for _, member := range project.Members {
		users = append(users, member.User)
	}
	return users, nil
}
