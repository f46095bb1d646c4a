// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across endpoints.
// Two response vocabularies coexist deliberately:
//
//   - The order-intake endpoint speaks the contract the storefront pages
//     were built against: {success, order_id, message} on success and
//     {error, message} on failure (see order_handler.go). That shape is
//     frozen; the landing pages parse it.
//   - Everything else (unknown routes, method fallbacks, panics, the order
//     lookup endpoint) uses the generic envelope below with a stable
//     machine-readable code.
//
// Example generic error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "resource not found"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/naijamart/go-order-backend/internal/http/middleware"
)

// ErrorResponse is the generic error envelope.
//
// RequestID echoes the X-Request-ID header so a client-side error can be
// matched to the server logs; Code is one of the errors.go constants and is
// the field API consumers should branch on; Message is display-safe prose.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"resource not found"`
}

// fail aborts the request with the generic error envelope.
//
// The request ID already written by the RequestID middleware is copied into
// the body, and 5xx responses are additionally logged through the
// request-scoped logger so server faults never go unrecorded.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail exposes fail() to the router package, which needs the same envelope
// for its NoRoute and NoMethod fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a JSON success response with the given status.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
