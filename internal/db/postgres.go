package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/gorm"
)

// SQLX wraps the pool GORM already owns so reporting queries and the health
// check share connections with the ORM. driverName selects bind vars
// ("postgres" or "sqlite3").
func SQLX(db *gorm.DB, driverName string) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection pool: %w", err)
	}
	return sqlx.NewDb(sqlDB, driverName), nil
}
