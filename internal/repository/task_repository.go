package repository

import (
	"gorm.io/gorm"

	"github.com/yamabiko/project-management-api/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task with its project (including the member set, which
// the authorization checks read) and assignee preloaded.
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	err := r.db.
		Preload("Project").
		Preload("Project.Members").
		Preload("AssignedTo").
		First(&task, id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// ListByAssignee lists tasks assigned to the user, optionally by status
func (r *GormTaskRepository) ListByAssignee(userID uint64, status *models.TaskStatus) ([]models.Task, error) {
	query := r.db.Preload("Project").Where("assigned_to_id = ?", userID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByProject lists tasks of a project, optionally by status
func (r *GormTaskRepository) ListByProject(projectID uint64, status *models.TaskStatus) ([]models.Task, error) {
	query := r.db.Preload("AssignedTo").Where("project_id = ?", projectID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
