// Package repository contains the repository layer for the Projects API
package repository

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sgsprojects/timesheet-api/internal/config"
)

// ConnectPostgres connects to the ERP company schema and returns a GORM
// database object. The ERP-owned tables are read-only from here; the only
// table this service migrates is its own code sequence counter.
func ConnectPostgres(cfg *config.Config) (*gorm.DB, error) {
	// Set up GORM logger
	var logLevel logger.LogLevel
	switch cfg.PostgresLogLevel {
	case "silent":
		logLevel = logger.Silent
	case "error":
		logLevel = logger.Error
	case "warn":
		logLevel = logger.Warn
	case "info":
		logLevel = logger.Info
	default:
		logLevel = logger.Warn
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %v", err)
	}

	if err := db.AutoMigrate(&SequenceCounter{}); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %v", err)
	}

	return db, nil
}
