package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"riverbend/portal/internal/logging"
	gormModels "riverbend/portal/internal/models/gorm"
)

// OpenPostgres connects GORM to Postgres, retrying briefly while the
// database container comes up.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), Config())
		if err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	logging.Info("Connected to Postgres via GORM")
	return db, nil
}

// Config is shared by Postgres and the SQLite test database. TranslateError
// turns unique violations into gorm.ErrDuplicatedKey on both drivers.
func Config() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         newZapLogger(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(gormModels.All()...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
