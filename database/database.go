package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"carbonbuddy/config"
	"carbonbuddy/models"
)

// Connect ouvre la base (Postgres en prod, sqlite en local) et applique
// les migrations automatiques.
func Connect(cfg config.Config) (*gorm.DB, error) {
	dsn := cfg.DatabaseURL
	var dialector gorm.Dialector

	switch {
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		dialector = postgres.Open(dsn)
	case dsn != "":
		// DSN sans préfixe : on suppose Postgres quand même
		dialector = postgres.Open(dsn)
	default:
		dbPath := "carbonbuddy.db"
		dialector = sqlite.Open(dbPath)
		dsn = dbPath
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.EmissionEntry{},
	); err != nil {
		return nil, err
	}

	log.Println("📦 DB connectée et migrée sur", dsn)
	return db, nil
}
