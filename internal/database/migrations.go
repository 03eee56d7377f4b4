package database

import (
	"fmt"
	"log"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// Models lists every persisted entity in dependency order
var Models = []interface{}{
	&models.User{},
	&models.Task{},
	&models.TaskAssignment{},
	&models.TaskUpdate{},
	&models.Courier{},
}

// MigrateDatabase creates or updates the schema and the composite indexes
// that struct tags cannot express
func MigrateDatabase(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}

// AddIndexes adds the composite indexes used by dashboards and reports
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Overdue and status counters
		{"tasks", "idx_tasks_status_due_date", "status, due_date"},

		// Weekly hours and update history
		{"task_updates", "idx_task_updates_user_created", "user_id, created_at"},
		{"task_updates", "idx_task_updates_task_created", "task_id, created_at"},

		// Courier log listing
		{"couriers", "idx_couriers_status_created", "status, created_at"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
