// Package postgres provides PostgreSQL database connection management
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smartmeal/core/internal/infrastructure/config"
	gormmodels "github.com/smartmeal/core/internal/infrastructure/persistence/gorm"
)

// ConnectionManager manages the relational database connection
type ConnectionManager struct {
	config *config.Config
	logger *zap.Logger
	db     *gorm.DB
	sqlDB  *sql.DB
}

// NewConnectionManager opens the database, configures the pool and
// optionally runs migrations
func NewConnectionManager(cfg *config.Config, log *zap.Logger) (*ConnectionManager, error) {
	cm := &ConnectionManager{
		config: cfg,
		logger: log.Named("database"),
	}

	if err := cm.open(); err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := cm.db.AutoMigrate(gormmodels.AllModels()...); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	cm.logger.Info("Database connection initialized",
		zap.String("driver", cfg.Database.Driver),
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
		zap.Bool("auto_migrate", cfg.Database.AutoMigrate),
	)

	return cm, nil
}

func (cm *ConnectionManager) open() error {
	dialector, err := cm.dialector()
	if err != nil {
		return err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         cm.gormLogger(),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cm.config.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cm.config.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cm.config.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cm.config.Database.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	cm.db = db
	cm.sqlDB = sqlDB
	return nil
}

func (cm *ConnectionManager) dialector() (gorm.Dialector, error) {
	switch cm.config.Database.Driver {
	case "postgres":
		return postgres.Open(cm.config.GetDSN()), nil
	case "sqlite":
		return sqlite.Open(cm.config.Database.Database), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cm.config.Database.Driver)
	}
}

func (cm *ConnectionManager) gormLogger() logger.Interface {
	logLevel := logger.Warn
	switch cm.config.Database.LogLevel {
	case "silent":
		logLevel = logger.Silent
	case "info":
		logLevel = logger.Info
	case "error":
		logLevel = logger.Error
	}

	return logger.New(
		zap.NewStdLog(cm.logger),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// GetDB returns the database handle
func (cm *ConnectionManager) GetDB() *gorm.DB {
	return cm.db
}

// HealthCheck pings the database
func (cm *ConnectionManager) HealthCheck(ctx context.Context) error {
	if err := cm.sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close closes the database connection
func (cm *ConnectionManager) Close() error {
	if cm.sqlDB != nil {
		return cm.sqlDB.Close()
	}
	return nil
}
