package database

import (
	"fmt"
	"time"

	"github.com/sangkips/dairy-coop-api/internal/config"
	"github.com/sangkips/dairy-coop-api/internal/domain/entity"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens the configured database. Duplicate-key errors are translated to gorm.ErrDuplicatedKey
// for every driver.
func NewDB(cfg *config.DatabaseConfig, debug bool, logger *logrus.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres", "":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		})
	case "mysql":
		dialector = mysql.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := Open(dialector, debug, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// sqlite allows one writer; a single connection keeps savepoints on the same handle
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	logger.WithFields(logrus.Fields{"module": "database", "driver": cfg.Driver}).Info("connected to database")
	return db, nil
}

// Open wraps gorm.Open with the settings every caller needs, tests included
func Open(dialector gorm.Dialector, debug bool, logger *logrus.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
}

// Models lists every persisted entity in dependency order
func Models() []interface{} {
	return []interface{}{
		// Catalogue
		&entity.Category{},
		&entity.Unit{},
		&entity.Item{},

		// Parties
		&entity.Supplier{},
		&entity.Customer{},

		// Accounting
		&entity.Ledger{},
		&entity.Voucher{},
		&entity.VoucherEntry{},

		// Stock and documents
		&entity.StockTransaction{},
		&entity.Purchase{},
		&entity.PurchaseDetail{},
		&entity.SalesTransaction{},
		&entity.SalesLineItem{},

		// System
		&entity.IdempotencyKey{},
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, logger *logrus.Logger) error {
	log := logger.WithField("module", "database")
	log.Info("running database migrations")

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}
