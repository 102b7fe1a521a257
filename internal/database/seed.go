package database

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yamabiko/project-management-api/internal/logger"
	"github.com/yamabiko/project-management-api/internal/models"
)

// Seed creates the role records and, on an empty database, a demo leader
// and member account so the API is usable right after first boot.
func Seed(db *gorm.DB) error {
	if err := seedRoles(db); err != nil {
		return err
	}
	return seedUsers(db)
}

func seedRoles(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Role{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count roles: %w", err)
	}
	if count > 0 {
		return nil
	}

	roles := []models.Role{
		{Name: models.RoleMember},
		{Name: models.RoleLeader},
	}
	if err := db.Create(&roles).Error; err != nil {
		return fmt.Errorf("failed to seed roles: %w", err)
	}

	logger.Get().Info().Msg("roles initialized")
	return nil
}

func seedUsers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	var leaderRole, memberRole models.Role
	if err := db.Where("name = ?", models.RoleLeader).First(&leaderRole).Error; err != nil {
		return fmt.Errorf("leader role missing: %w", err)
	}
	if err := db.Where("name = ?", models.RoleMember).First(&memberRole).Error; err != nil {
		return fmt.Errorf("member role missing: %w", err)
	}

	users := []models.User{
		{
			Username:     "leader",
			Email:        "leader@example.com",
			PasswordHash: string(hash),
			FullName:     "Project Leader",
			Roles:        []models.Role{leaderRole},
		},
		{
			Username:     "member",
			Email:        "member@example.com",
			PasswordHash: string(hash),
			FullName:     "Project Member",
			Roles:        []models.Role{memberRole},
		},
	}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	logger.Get().Info().Msg("demo users initialized")
	return nil
}
