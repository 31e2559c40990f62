package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lookbook-server-go/internal/platform/config"
	"lookbook-server-go/internal/platform/errors"
	"lookbook-server-go/internal/platform/storage/migrations"
)

// Open connects to the configured database and applies pending migrations.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "storage.open", "failed to open database", err)
	}

	manager := NewMigrationManager(db)
	manager.AddMigration(&migrations.Migration001Products{})
	manager.AddMigration(&migrations.Migration002ImageValidation{})
	if err := manager.RunMigrations(); err != nil {
		return nil, err
	}

	return db, nil
}
