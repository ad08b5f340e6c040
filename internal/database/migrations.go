package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/yukikurage/taskmaster-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema and the composite indexes used by
// the task queries.
func Migrate(db *gorm.DB) error {
	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// AddIndexes creates the indexes that AutoMigrate does not derive from
// struct tags, skipping the ones that already exist.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		name    string
		columns []string
	}{
		// Snapshot loads read every task of a user in creation order.
		{"idx_tasks_user_created", []string{"user_id", "created_at"}},
		{"idx_tasks_user_status", []string{"user_id", "status"}},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(&models.Task{}, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON tasks (%s)", idx.name, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		log.Printf("Created index %s on tasks", idx.name)
	}

	return nil
}

