package database

import (
	"fmt"
	"time"

	"rentpos-backend/internal/config"
	"rentpos-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the configured store. TranslateError is required: the
// reservation path relies on gorm.ErrDuplicatedKey from both dialects.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
	return OpenDialector(dialector)
}

// OpenDialector opens any gorm dialect with the shared settings. Timestamps
// are written in UTC so range filters compare the same way on every store.
func OpenDialector(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table, then the indexes AutoMigrate cannot
// express.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	if db.Dialector.Name() == "sqlite" {
		// CalendarEntry cascade depends on it
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Product{},
		&models.Rental{},
		&models.CalendarEntry{},
		&models.Transaction{},
		&models.Payment{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	// At most one reserved entry per product and day. This index, not the
	// availability read, is what stops two overlapping rentals.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_calendar_entries_reserved
		ON calendar_entries (product_id, date)
		WHERE status = 'reserved'
	`).Error; err != nil {
		return fmt.Errorf("create reserved calendar index: %w", err)
	}

	log.Info("database migration completed", zap.String("dialect", db.Dialector.Name()))
	return nil
}
