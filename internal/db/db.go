package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Backend names reported by Open and surfaced by the health endpoint.
const (
	BackendMySQL  = "mysql"
	BackendSQLite = "sqlite"
)

// Open returns a connected GORM DB instance. A non-empty MySQL DSN selects
// the MySQL backend; otherwise the embedded SQLite file is used. Both run
// the same repository logic, so store semantics do not depend on the
// backend choice.
func Open(mysqlDSN, sqlitePath string) (*gorm.DB, string, error) {
	if mysqlDSN != "" {
		gdb, err := gorm.Open(mysql.Open(mysqlDSN), &gorm.Config{})
		if err != nil {
			return nil, "", fmt.Errorf("connect mysql: %w", err)
		}
		return gdb, BackendMySQL, nil
	}

	gdb, err := gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{})
	if err != nil {
		return nil, "", fmt.Errorf("open sqlite %s: %w", sqlitePath, err)
	}

	// SQLite allows one writer; a single pooled connection avoids busy
	// errors and keeps :memory: databases on one connection.
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, "", fmt.Errorf("sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return gdb, BackendSQLite, nil
}
