package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/yamabiko/project-management-api/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a project and its leader membership in one transaction,
// so the leader is a member from the moment the project exists.
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		member := &models.ProjectMember{
			ProjectID: project.ID,
			UserID:    project.LeaderID,
			JoinedAt:  time.Now(),
		}
		return tx.Create(member).Error
	})
}

// FindByID finds a project with leader and members preloaded
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	err := r.db.
		Preload("Leader").
		Preload("Members").
		Preload("Members.User").
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete deletes a project together with its tasks and memberships
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// ListByLeader lists projects led by the user
func (r *GormProjectRepository) ListByLeader(userID uint64) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.
		Preload("Leader").
		Where("leader_id = ?", userID).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// ListByMember lists projects the user is a member of
func (r *GormProjectRepository) ListByMember(userID uint64) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.
		Preload("Leader").
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// AddMember inserts a membership and refreshes the project timestamp
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		return touchProject(tx, member.ProjectID)
	})
}

// RemoveMember deletes a membership and refreshes the project timestamp
func (r *GormProjectRepository) RemoveMember(projectID, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("project_id = ? AND user_id = ?", projectID, userID).
			Delete(&models.ProjectMember{}).Error
		if err != nil {
			return err
		}
		return touchProject(tx, projectID)
	})
}

func touchProject(tx *gorm.DB, projectID uint64) error {
	return tx.Model(&models.Project{}).
		Where("id = ?", projectID).
		Update("updated_at", time.Now()).Error
}
