package repository

import (
	"github.com/yamabiko/project-management-api/internal/models"
)

// UserRepository defines the interface for user and role data access
type UserRepository interface {
	// Create creates a new user with its role associations
	Create(user *models.User) error

	// FindByID finds a user by ID with roles preloaded
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username with roles preloaded
	FindByUsername(username string) (*models.User, error)

	// ExistsByUsername reports whether a user with the username exists
	ExistsByUsername(username string) (bool, error)

	// ExistsByEmail reports whether a user with the email exists
	ExistsByEmail(email string) (bool, error)

	// List returns all users
	List() ([]models.User, error)

	// FindRoleByName finds a role record by its name
	FindRoleByName(name models.RoleName) (*models.Role, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a project and its leader membership atomically
	Create(project *models.Project) error

	// FindByID finds a project with leader and members preloaded
	FindByID(id uint64) (*models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project together with its tasks and memberships
	Delete(id uint64) error

	// ListByLeader lists projects led by the user
	ListByLeader(userID uint64) ([]models.Project, error)

	// ListByMember lists projects the user is a member of
	ListByMember(userID uint64) ([]models.Project, error)

	// AddMember inserts a membership and refreshes the project timestamp
	AddMember(member *models.ProjectMember) error

	// RemoveMember deletes a membership and refreshes the project timestamp
	RemoveMember(projectID, userID uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task with its project (and member set) preloaded
	FindByID(id uint64) (*models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// ListByAssignee lists tasks assigned to the user, optionally by status
	ListByAssignee(userID uint64, status *models.TaskStatus) ([]models.Task, error)

	// ListByProject lists tasks of a project, optionally by status
	ListByProject(projectID uint64, status *models.TaskStatus) ([]models.Task, error)
}
