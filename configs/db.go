package configs

import (
	"fmt"

	"tableorder/entity"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectionDB opens the database named by cfg.
func ConnectionDB(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DBSource)
	default:
		dialector = sqlite.Open(cfg.DBSource)
	}
	return Open(dialector, cfg.DBDriver == "sqlite")
}

// Open wraps gorm.Open with the settings shared by the server and tests.
// SQLite gets a single connection so writers are serialized.
func Open(dialector gorm.Dialector, single bool) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if single {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// SetupDatabase migrates the schema.
func SetupDatabase(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.MenuItem{},
		&entity.Order{}, &entity.OrderItem{},
		&entity.Table{}, &entity.ServiceCall{},
		&entity.Staff{},
	)
}
