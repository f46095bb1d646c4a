// Package repo implements the data persistence layer for orders, backed by
// GORM. This file contains database bootstrapping helpers for SQLite (pure
// Go driver), OpenTelemetry instrumentation of the handle, and schema
// migrations for both storage partitions.
package repo

import (
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/naijamart/go-order-backend/internal/domain"
	"github.com/naijamart/go-order-backend/internal/tenant"
)

// OpenSQLite opens (or creates) a SQLite database, applies PRAGMAs, and
// attaches the OpenTelemetry tracing plugin so order writes show up as
// spans alongside the HTTP traces.
func OpenSQLite(path string) (*gorm.DB, error) {
	// A missing parent directory surfaces from the driver as a cryptic
	// "out of memory (14)"; check up front and return the real cause.
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates the production and test order tables. Both partitions
// share the domain.Order schema; only the table name differs.
func AutoMigrate(db *gorm.DB) error {
	for _, table := range []string{tenant.TableOrders, tenant.TableTestOrders} {
		if err := db.Table(table).AutoMigrate(&domain.Order{}); err != nil {
			return err
		}
	}
	return nil
}
