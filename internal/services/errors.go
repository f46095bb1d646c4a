// Package services defines the business logic of the order-intake pipeline.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages and HTTP status codes is performed at the
// handler layer.
package services

import "errors"

var (
	// ErrDuplicateOrder is returned when an equivalent order (same phone and
	// product) was already accepted within the suppression window. Transient:
	// the caller may retry after the window, or treat the order as already
	// submitted.
	ErrDuplicateOrder = errors.New("duplicate order detected")

	// ErrStorageUnavailable indicates the storage backend is not configured
	// at all. The intake flow degrades to accepted-but-unrecorded rather
	// than failing the customer-facing request.
	ErrStorageUnavailable = errors.New("order storage not configured")

	// ErrOrderNotFound indicates that the requested order does not exist in
	// the resolved partition.
	ErrOrderNotFound = errors.New("order not found")
)
