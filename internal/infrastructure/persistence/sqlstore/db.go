// Package sqlstore persists scoring decisions through gorm, on SQLite or PostgreSQL.
package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/credscore/internal/config"
	"github.com/turtacn/credscore/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the configured database and, when enabled, migrates the predictions table.
// Open 连接数据库并在需要时自动迁移 predictions 表。
func Open(ctx context.Context, cfg *config.DatabaseConfig, log logger.Logger) (*gorm.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}

	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Driver) {
	case DriverSQLite, "":
		dialector = sqlite.Open(cfg.SQLitePath)
	case DriverPostgres:
		dialector = postgres.Open(cfg.GetDSN())
	default:
		return nil, fmt.Errorf("unsupported gorm driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		log.Error(ctx, "Failed to open decision store", err, logger.String("driver", cfg.Driver))
		return nil, fmt.Errorf("failed to open decision store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxConnLifetime) * time.Second)
	}
	if cfg.MaxConnIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.MaxConnIdleTime) * time.Second)
	}

	if cfg.AutoMigrate {
		if err := Migrate(db.WithContext(ctx)); err != nil {
			log.Error(ctx, "Failed to migrate decision store", err)
			return nil, err
		}
	}

	log.Info(ctx, "Decision store ready",
		logger.String("driver", db.Dialector.Name()),
		logger.Bool("auto_migrate", cfg.AutoMigrate),
	)
	return db, nil
}

// Migrate creates or updates the predictions table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&predictionDBM{}); err != nil {
		return fmt.Errorf("failed to migrate predictions table: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
