package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskboard/pkg/config"
	"taskboard/pkg/model"
)

// Open connects to the configured database and runs migrations. The
// driver is mysql by default; postgres and sqlite are for deployments
// that already run them and for local development respectively.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	var gdb *gorm.DB
	var err error
	switch cfg.DBDriver {
	case "mysql":
		gdb, err = openMySQL(cfg, gcfg)
	case "postgres":
		gdb, err = gorm.Open(postgres.Open(cfg.DBDSN), gcfg)
	case "sqlite":
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = "taskboard.db"
		}
		gdb, err = gorm.Open(sqlite.Open(dsn), gcfg)
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}

	if sqlDB, derr := gdb.DB(); derr == nil {
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(20)
	}
	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Migrate creates or updates the schema for every persisted record.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&model.User{}, &model.Task{}, &model.AuditEntry{})
}

func openMySQL(cfg *config.Config, gcfg *gorm.Config) (*gorm.DB, error) {
	dsn := cfg.DBDSN
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.MySQLUser, cfg.MySQLPass, cfg.MySQLHost, cfg.MySQLPort, cfg.MySQLDB)
	}
	gdb, err := gorm.Open(mysql.Open(dsn), gcfg)
	if err != nil {
		// Try to create database if missing
		if strings.Contains(err.Error(), "Unknown database") {
			if cerr := createDatabase(cfg); cerr != nil {
				return nil, fmt.Errorf("create database failed: %w", cerr)
			}
			return gorm.Open(mysql.Open(dsn), gcfg)
		}
		return nil, err
	}
	return gdb, nil
}

func createDatabase(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/", cfg.MySQLUser, cfg.MySQLPass, cfg.MySQLHost, cfg.MySQLPort)
	sdb, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	defer sdb.Close()
	_, err = sdb.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` DEFAULT CHARACTER SET utf8mb4", cfg.MySQLDB))
	return err
}
