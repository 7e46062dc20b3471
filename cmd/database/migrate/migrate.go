package migration

import (
	"fmt"

	"recipe-feed/entities"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		return fmt.Errorf("migrating user table: %w", err)
	}
	// usernames are unique regardless of case
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username))",
	).Error; err != nil {
		return fmt.Errorf("creating username index: %w", err)
	}
	if err := db.AutoMigrate(&entities.Session{}); err != nil {
		return fmt.Errorf("migrating session table: %w", err)
	}
	if err := db.AutoMigrate(&entities.Media{}); err != nil {
		return fmt.Errorf("migrating media table: %w", err)
	}
	if err := db.AutoMigrate(&entities.Recipe{}); err != nil {
		return fmt.Errorf("migrating recipe table: %w", err)
	}
	if err := db.AutoMigrate(&entities.Like{}); err != nil {
		return fmt.Errorf("migrating like table: %w", err)
	}

	log.Info("Database migration complete")
	return nil
}
