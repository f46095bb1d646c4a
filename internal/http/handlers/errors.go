// Package handlers defines HTTP-layer error codes used by the generic error
// envelope (see response.go).
//
// Conventions:
//   - Codes are lowercase, snake_case, and mirror common HTTP status
//     semantics to aid interoperability.
//   - The order-intake endpoint does not use these codes; its error shapes
//     are fixed by the storefront contract and built in order_handler.go.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeStorageOffline = "storage_unconfigured"
)
