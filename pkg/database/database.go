package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"comandero/internal/models"
)

// Connect opens the PostgreSQL store. Error translation is enabled so
// unique-constraint violations surface as gorm.ErrDuplicatedKey and can
// be mapped to Conflict at the repository layer.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema for every entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Employee{},
		&models.Restaurant{},
		&models.Employment{},
		&models.Item{},
		&models.Commanda{},
		&models.Order{},
	)
}
