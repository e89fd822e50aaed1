package database

import (
	"fmt"

	"todo-ledger/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate creates the users and tasks tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
