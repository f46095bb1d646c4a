// Package repo implements the data persistence layer for orders, backed by
// GORM. This file provides the order writer and reader.
//
// All functions are context-aware and accept a *gorm.DB handle plus the
// table name resolved by the tenant router, making them safe for use within
// transactions or connection-scoped operations. They follow the "thin
// repository" approach: no business logic, only persistence.
//
// Error semantics:
//   - When an order is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// There is no retry logic at this layer: exactly one write is attempted
// per accepted submission, and retries, if any, are the caller's
// responsibility.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/naijamart/go-order-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist. It aliases
// gorm.ErrRecordNotFound for consistency across the service layer and
// handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateOrder inserts o into table, assigning a fresh UUID primary key and a
// UTC creation timestamp. On success the passed order is returned with its
// identifier populated; on failure the DB error is returned and no partial
// state is kept.
func CreateOrder(ctx context.Context, db *gorm.DB, table string, o *domain.Order) (*domain.Order, error) {
	o.ID = uuid.NewString()
	o.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Table(table).Create(o).Error; err != nil {
		return nil, err
	}
	return o, nil
}

// GetOrder fetches a single order by id from table. If the record does not
// exist, it returns ErrNotFound. On other DB errors, the raw error is
// returned.
func GetOrder(ctx context.Context, db *gorm.DB, table, id string) (*domain.Order, error) {
	var o domain.Order
	err := db.WithContext(ctx).Table(table).Where("id = ?", id).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}
