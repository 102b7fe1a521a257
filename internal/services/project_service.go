package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yamabiko/project-management-api/internal/identity"
	"github.com/yamabiko/project-management-api/internal/models"
	"github.com/yamabiko/project-management-api/internal/repository"
)

var (
	ErrProjectNotFound       = errors.New("project not found")
	ErrProjectNameRequired   = errors.New("project name cannot be empty")
	ErrLeaderRoleRequired    = errors.New("leader role required")
	ErrNotProjectLeader      = errors.New("you are not the leader of this project")
	ErrNotProjectParticipant = errors.New("you are not a member of this project")
	ErrAlreadyProjectMember  = errors.New("user is already a member of this project")
	ErrNotProjectMember      = errors.New("user is not a member of this project")
	ErrCannotRemoveLeader    = errors.New("leader cannot be removed from project")
)

// ProjectService provides the project aggregate operations. Every mutation
// re-checks the caller's relationship to the project inside the operation
// itself; nothing is decided from ambient state.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name             string
	Description      string
	ProblemStatement string
}

// Create creates a project led by the caller. The caller needs the LEADER
// role; there is no project to be leader of yet, so this is a role-level
// check. The creator becomes the single leader and the first member.
func (s *ProjectService) Create(ident identity.Identity, input CreateProjectInput) (*models.Project, error) {
	if !ident.HasRole(models.RoleLeader) {
		return nil, ErrLeaderRoleRequired
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrProjectNameRequired
	}

	project := &models.Project{
		Name:                     input.Name,
		Description:              input.Description,
		ProblemStatement:         input.ProblemStatement,
		ProblemStatementApproved: false,
		LeaderID:                 ident.UserID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.findProject(project.ID)
}

// Get returns a project. Non-participants are refused rather than given an
// empty result.
func (s *ProjectService) Get(ident identity.Identity, projectID uint64) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if !project.IsParticipant(ident.UserID) {
		return nil, ErrNotProjectParticipant
	}

	return project, nil
}

// UpdateProjectInput represents replacement values for a project's fields.
type UpdateProjectInput struct {
	Name             string
	Description      string
	ProblemStatement string
}

// Update replaces name, description and problem statement. Changing the
// problem statement text does not reset its approval flag.
func (s *ProjectService) Update(ident identity.Identity, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsLeader(ident.UserID) {
		return nil, ErrNotProjectLeader
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrProjectNameRequired
	}

	project.Name = input.Name
	project.Description = input.Description
	project.ProblemStatement = input.ProblemStatement

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// ApproveProblemStatement marks the problem statement approved. Approving an
// already approved statement succeeds without change.
func (s *ProjectService) ApproveProblemStatement(ident identity.Identity, projectID uint64) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsLeader(ident.UserID) {
		return nil, ErrNotProjectLeader
	}

	project.ProblemStatementApproved = true

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to approve problem statement: %w", err)
	}

	return project, nil
}

// AddMember adds a user to the project's member set.
func (s *ProjectService) AddMember(ident identity.Identity, projectID, userID uint64) error {
	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}
	if !project.IsLeader(ident.UserID) {
		return ErrNotProjectLeader
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if project.HasMember(user.ID) {
		return ErrAlreadyProjectMember
	}

	member := &models.ProjectMember{
		ProjectID: project.ID,
		UserID:    user.ID,
		JoinedAt:  time.Now(),
	}
	if err := s.projectRepo.AddMember(member); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}

// RemoveMember removes a user from the member set. The leader can never be
// removed; removal does not touch tasks assigned to the departing member.
func (s *ProjectService) RemoveMember(ident identity.Identity, projectID, userID uint64) error {
	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}
	if !project.IsLeader(ident.UserID) {
		return ErrNotProjectLeader
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if user.ID == project.LeaderID {
		return ErrCannotRemoveLeader
	}
	if !project.HasMember(user.ID) {
		return ErrNotProjectMember
	}

	if err := s.projectRepo.RemoveMember(project.ID, user.ID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// Delete removes the project. The store cascades tasks and memberships.
func (s *ProjectService) Delete(ident identity.Identity, projectID uint64) error {
	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}
	if !project.IsLeader(ident.UserID) {
		return ErrNotProjectLeader
	}

	if err := s.projectRepo.Delete(project.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// ListForUser returns the projects the user leads plus the projects the user
// is a member of, deduplicated by project id.
func (s *ProjectService) ListForUser(userID uint64) ([]models.Project, error) {
	led, err := s.projectRepo.ListByLeader(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list led projects: %w", err)
	}

	memberOf, err := s.projectRepo.ListByMember(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list member projects: %w", err)
	}

	seen := make(map[uint64]struct{}, len(led)+len(memberOf))
	result := make([]models.Project, 0, len(led)+len(memberOf))
	for _, p := range append(led, memberOf...) {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		result = append(result, p)
	}

	return result, nil
}

func (s *ProjectService) findProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
