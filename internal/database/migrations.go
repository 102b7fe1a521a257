package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yamabiko/project-management-api/internal/logger"
)

// AddIndexes adds the secondary indexes backing the lookup queries. The
// existence check reads pg_indexes, so this only runs on PostgreSQL.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task lookups by project, assignee and status
		{"tasks", "idx_tasks_project_id", "project_id"},
		{"tasks", "idx_tasks_assigned_to_id", "assigned_to_id"},
		{"tasks", "idx_tasks_status", "status"},
		{"tasks", "idx_tasks_project_id_status", "project_id, status"},
		{"tasks", "idx_tasks_assigned_to_id_status", "assigned_to_id, status"},

		// Project lookups by leader and member containment
		{"projects", "idx_projects_leader_id", "leader_id"},
		{"project_members", "idx_project_members_project_id", "project_id"},
		{"project_members", "idx_project_members_user_id", "user_id"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logger.Get().Info().Str("index", idx.name).Str("table", idx.table).Msg("created index")
	}

	return nil
}
