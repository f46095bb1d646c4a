// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file installs the admission limiter in front of the order-intake
// endpoint. The actual limiting strategy lives in internal/ratelimit behind
// the AdmissionStore interface; this middleware only derives the client
// identity and maps a denial to the 429 response shape.
//
// Notes:
//   - The store is process-local. For horizontally scaled deployments,
//     substitute a shared AdmissionStore to enforce global limits.
//   - Admission is edge-level abuse control, not authorization.
package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/naijamart/go-order-backend/internal/ratelimit"
)

// keyFunc selects the identity used to key an admission counter.
//
// Implementations should return a stable string for the duration of a
// request (e.g., "ip:203.0.113.7").
type keyFunc func(*gin.Context) string

// ClientIdentity returns a keyFunc that identifies the caller by network
// address: the first hop of an X-Forwarded-For chain when present, falling
// back to the direct peer address. Keys are prefixed with "ip:" so other
// identity namespaces can coexist later without collisions.
func ClientIdentity() keyFunc {
	return func(c *gin.Context) string {
		if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if first = strings.TrimSpace(first); first != "" {
				return "ip:" + first
			}
		}
		host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err != nil {
			host = c.Request.RemoteAddr
		}
		return "ip:" + host
	}
}

// Admission returns a Gin middleware that consults store before letting a
// request proceed. Denial short-circuits the pipeline with:
//
//	HTTP/1.1 429 Too Many Requests
//	{ "error": "Too many requests. Please try again later." }
//
// retryAfter hints when the caller's window resets; it is surfaced as a
// Retry-After header rounded up to whole seconds.
func Admission(store ratelimit.AdmissionStore, keyFn keyFunc, retryAfter time.Duration) gin.HandlerFunc {
	secs := int(retryAfter / time.Second)
	if secs < 1 {
		secs = 1
	}
	return func(c *gin.Context) {
		if store.Allow(keyFn(c)) {
			c.Next()
			return
		}
		ObserveOrder(OutcomeDenied)
		c.Header("Retry-After", strconv.Itoa(secs))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": "Too many requests. Please try again later.",
		})
	}
}
