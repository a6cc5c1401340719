package database

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"goyave.dev/emailvalidator/config"
	"goyave.dev/emailvalidator/slog"
	"goyave.dev/emailvalidator/util/errors"
)

// New create a new connection pool using the settings defined in the given configuration.
//
// In order to use a specific driver / dialect ("mysql", "sqlite3", ...), you must not
// forget to blank-import it in your main file.
//
//	import _ "goyave.dev/emailvalidator/database/dialect/mysql"
//	import _ "goyave.dev/emailvalidator/database/dialect/postgres"
//	import _ "goyave.dev/emailvalidator/database/dialect/sqlite"
//	import _ "goyave.dev/emailvalidator/database/dialect/mssql"
//	import _ "goyave.dev/emailvalidator/database/dialect/bigquery"
//	import _ "goyave.dev/emailvalidator/database/dialect/clickhouse"
func New(cfg *config.Config, logger func() *slog.Logger) (*gorm.DB, error) {
	driver := cfg.GetString("database.connection")

	if driver == "none" {
		return nil, errors.New("Cannot create DB connection. Database is set to \"none\" in the config")
	}

	mu.Lock()
	dialect, ok := dialects[driver]
	mu.Unlock()
	if !ok {
		return nil, errors.Errorf("DB Connection %q not supported, forgotten import?", driver)
	}

	dsn := dialect.buildDSN(cfg)
	db, err := gorm.Open(dialect.initializer(dsn), newConfig(cfg, logger))
	if err != nil {
		return nil, errors.New(err)
	}

	if err := initTimeoutPlugin(cfg, db); err != nil {
		return db, err
	}
	return db, initSQLDB(cfg, db)
}

// NewFromDialector create a new connection pool from a gorm dialector and using the settings
// defined in the given configuration.
//
// This can be used in tests to create a mock connection pool.
func NewFromDialector(cfg *config.Config, logger func() *slog.Logger, dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, newConfig(cfg, logger))
	if err != nil {
		return nil, errors.New(err)
	}

	if err := initTimeoutPlugin(cfg, db); err != nil {
		return db, err
	}
	return db, initSQLDB(cfg, db)
}

func newConfig(cfg *config.Config, slogger func() *slog.Logger) *gorm.Config {
	var l logger.Interface
	if cfg.GetBool("app.debug") {
		l = NewLogger(slogger)
	} else {
		l = NewLogger(nil)
	}
	return &gorm.Config{
		Logger:                 l,
		SkipDefaultTransaction: cfg.GetBool("database.config.skipDefaultTransaction"),
		DryRun:                 cfg.GetBool("database.config.dryRun"),
		PrepareStmt:            cfg.GetBool("database.config.prepareStmt"),
		DisableAutomaticPing:   cfg.GetBool("database.config.disableAutomaticPing"),
	}
}

func initTimeoutPlugin(cfg *config.Config, db *gorm.DB) error {
	timeout := cfg.GetInt("database.defaultReadQueryTimeout")
	if timeout <= 0 {
		return nil
	}
	if err := db.Use(&TimeoutPlugin{Timeout: time.Duration(timeout) * time.Millisecond}); err != nil {
		return errors.New(err)
	}
	return nil
}

func initSQLDB(cfg *config.Config, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.New(err)
	}
	sqlDB.SetMaxOpenConns(cfg.GetInt("database.maxOpenConnections"))
	sqlDB.SetMaxIdleConns(cfg.GetInt("database.maxIdleConnections"))
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.GetInt("database.maxLifetime")) * time.Second)
	return nil
}
