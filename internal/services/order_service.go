// Package services – OrderService
//
// This file implements the OrderService, which runs the admission pipeline
// for inbound order submissions: field validation, duplicate suppression,
// tenant routing, and the single persistence write. Rate governance runs
// upstream as HTTP middleware; everything after admission lives here so the
// pipeline can be exercised and tested without a transport.
//
// Stage order is fixed (validate → dedup → route → persist) and any stage
// short-circuits the rest. Service-level errors (validation.Error,
// ErrDuplicateOrder, ErrStorageUnavailable) are returned for predictable
// cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/naijamart/go-order-backend/internal/dedup"
	"github.com/naijamart/go-order-backend/internal/domain"
	"github.com/naijamart/go-order-backend/internal/repo"
	"github.com/naijamart/go-order-backend/internal/tenant"
	"github.com/naijamart/go-order-backend/internal/validation"
)

// OrderRepo defines the repository contract required by OrderService.
// Implementations are responsible for persistence of order records in the
// named table.
type OrderRepo interface {
	// CreateOrder performs a single insert into table and returns the
	// stored record with its assigned identifier.
	CreateOrder(ctx context.Context, db *gorm.DB, table string, o *domain.Order) (*domain.Order, error)

	// GetOrder fetches an order by id from table.
	GetOrder(ctx context.Context, db *gorm.DB, table, id string) (*domain.Order, error)
}

// OrderService orchestrates the order-intake pipeline. It validates the
// submission, suppresses recent duplicates, resolves the storage partition
// from the request host, and performs the persistence write.
type OrderService struct {
	// DB is the GORM handle used for persistence. A nil handle means the
	// storage backend is unconfigured; submissions are then accepted but
	// not recorded.
	DB *gorm.DB
	// Repo is the order repository used by this service.
	Repo OrderRepo
	// Duplicates is the fingerprint store consulted before every write.
	Duplicates dedup.DuplicateStore
}

// NewOrderService constructs an OrderService. db may be nil (degraded mode).
func NewOrderService(db *gorm.DB, r OrderRepo, dupes dedup.DuplicateStore) *OrderService {
	return &OrderService{DB: db, Repo: r, Duplicates: dupes}
}

// Submit runs one submission through the pipeline. host is the inbound
// request's Host header, used for tenant routing.
//
// Returns:
//   - (*domain.Order, nil) with a populated ID on a persisted success.
//   - (nil, *validation.Error) when a field fails the schema; the error
//     identifies the first failing field.
//   - (nil, ErrDuplicateOrder) when the fingerprint was seen within the
//     suppression window; nothing is persisted.
//   - (nil, ErrStorageUnavailable) when no storage is configured; the
//     submission passed every other stage and the caller should report the
//     accepted-but-unrecorded outcome.
//   - (nil, err) for storage write failures; exactly one write was
//     attempted and no retry is performed here.
func (s *OrderService) Submit(ctx context.Context, in validation.OrderInput, host string) (*domain.Order, error) {
	order, verr := validation.Validate(in)
	if verr != nil {
		return nil, verr
	}

	// Check-and-mark is atomic inside the store, so two racing identical
	// submissions cannot both pass as first-seen.
	if s.Duplicates != nil && s.Duplicates.IsDuplicate(order.Phone, order.ProductName) {
		return nil, ErrDuplicateOrder
	}

	if s.DB == nil {
		return nil, ErrStorageUnavailable
	}

	table := tenant.ResolveTable(host)
	stored, err := s.Repo.CreateOrder(ctx, s.DB, table, order)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// Get fetches a previously stored order by id, resolving the partition from
// host the same way Submit does. Returns ErrOrderNotFound when the id does
// not exist in that partition, and ErrStorageUnavailable in degraded mode.
func (s *OrderService) Get(ctx context.Context, id, host string) (*domain.Order, error) {
	if s.DB == nil {
		return nil, ErrStorageUnavailable
	}
	table := tenant.ResolveTable(host)
	o, err := s.Repo.GetOrder(ctx, s.DB, table, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}
