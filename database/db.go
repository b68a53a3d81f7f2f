package database

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"nineworlds/internal/config"
	"nineworlds/internal/models"
)

func ConnectDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Connected to the database successfully")
	return db, nil
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.UserRole{},
		&models.User{},
		&models.Category{},
		&models.Novel{},
		&models.Chapter{},
		&models.Comment{},
		&models.Reaction{},
		&models.Bookmark{},
		&models.ReadingHistory{},
		&models.NovelStatistics{},
		&models.AdminLog{},
	); err != nil {
		return err
	}
	return seedRoles(db)
}

// seedRoles inserts the fixed role set. Existing rows are left untouched so
// role descriptions edited in place survive restarts.
func seedRoles(db *gorm.DB) error {
	for _, role := range models.SeedRoles() {
		var existing models.UserRole
		err := db.First(&existing, role.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&role).Error; err != nil {
				return fmt.Errorf("seed role %q: %w", role.Name, err)
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
