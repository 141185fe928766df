package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aya-platform/volunteer-hub/internal/config"
)

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}
}

func OpenPostgres(conf *config.PostgresConfig) (*gorm.DB, error) {
	return OpenPostgresWithURL(conf.DSN())
}

func OpenPostgresWithURL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	return db, nil
}

// OpenSQLite opens a pure-Go SQLite database. ":memory:" gives a private
// in-memory database, pinned to a single connection so every query sees it.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB -> %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// Open picks the driver from the config. DATABASE_URL, when set, wins over the
// postgres section.
func Open(conf *config.AppConfig, databaseURL string) (*gorm.DB, error) {
	if conf.Database.Driver == config.DriverSQLite {
		return OpenSQLite(conf.Database.SQLitePath)
	}

	if databaseURL != "" {
		return OpenPostgresWithURL(databaseURL)
	}

	return OpenPostgres(conf.Postgres)
}
