package database

import (
	"fmt"

	"receiving-dashboard/internal/config"
	"receiving-dashboard/internal/logger"
	"receiving-dashboard/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	gormprom "gorm.io/plugin/prometheus"
)

// Open connects to Postgres and migrates the schema.
func Open(cfg *config.Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsDevelopment() {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: logger.NewGormLogger(level, cfg.SlowQuery),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if cfg.MetricsEnabled {
		// Connection pool stats land in the default registry, served next to the app metrics.
		err := db.Use(gormprom.New(gormprom.Config{
			DBName:          "receiving",
			RefreshInterval: 15,
			StartServer:     false,
		}))
		if err != nil {
			return nil, fmt.Errorf("database metrics: %w", err)
		}
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	zap.L().Info("database connected, migration complete")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Customer{},
		&models.Employee{},
		&models.ProblemTagSubmission{},
		&models.ProblemTagLine{},
		&models.DailyReceivingRecord{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
