// Package ratelimit implements the admission limiter: a per-client-identity
// request-rate governor consulted before any other stage of the order-intake
// pipeline.
//
// The default implementation is a fixed-window counter. A burst that
// straddles a window boundary can therefore admit up to ~2x the nominal
// limit in the worst case; this is an accepted approximation for coarse
// abuse suppression, not a bug. Callers needing stricter guarantees can
// swap in the token-bucket implementation (see bucket.go) or an external
// shared store behind the same AdmissionStore interface.
//
// State is process-local: it does not survive restarts and is not shared
// across instances. Tracked identities are bounded with least-recently-used
// eviction to keep memory predictable under identity churn (e.g., spoofed
// forwarded-for headers).
package ratelimit

import (
	"sync"
	"time"
)

// AdmissionStore decides whether a request from the given identity may
// proceed. Implementations must be safe for concurrent use, and the
// check-and-count operation must be atomic with respect to other callers
// touching the same key.
type AdmissionStore interface {
	// Allow records an admission attempt for key and reports whether the
	// request may proceed.
	Allow(key string) bool
}

// Default sizing, matching the production configuration.
const (
	DefaultLimit      = 10
	DefaultWindow     = time.Minute
	DefaultMaxClients = 500

	// cleanupEvery bounds how often expired entries are purged wholesale.
	cleanupEvery = 5000
)

// windowEntry is a per-identity counter within the current window.
type windowEntry struct {
	count    int
	started  time.Time // when the current window opened
	lastSeen time.Time // for LRU eviction
}

// WindowCounter is the fixed-window AdmissionStore. Each identity gets a
// counter that resets once the window has fully elapsed; within a window,
// exactly limit admissions succeed and every further attempt is denied.
//
// This type is safe for concurrent use.
type WindowCounter struct {
	limit      int
	window     time.Duration
	maxClients int

	mu       sync.Mutex
	entries  map[string]*windowEntry
	cleanupN uint64

	now func() time.Time // test seam
}

// NewWindowCounter constructs a fixed-window counter admitting up to limit
// requests per identity per window, tracking at most maxClients identities.
// Non-positive arguments fall back to the package defaults.
func NewWindowCounter(limit int, window time.Duration, maxClients int) *WindowCounter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if maxClients <= 0 {
		maxClients = DefaultMaxClients
	}
	return &WindowCounter{
		limit:      limit,
		window:     window,
		maxClients: maxClients,
		entries:    make(map[string]*windowEntry),
		now:        time.Now,
	}
}

// Allow implements AdmissionStore. The check-and-increment is performed
// under a single lock acquisition so two racing requests for the same key
// cannot both observe the pre-increment count.
func (w *WindowCounter) Allow(key string) bool {
	now := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	// Opportunistic purge of expired entries. Run before touching the
	// requested key so a stale entry for that key is handled by the reset
	// below rather than kept alive here.
	w.cleanupN++
	if w.cleanupN >= cleanupEvery {
		for k, e := range w.entries {
			if now.Sub(e.lastSeen) >= w.window {
				delete(w.entries, k)
			}
		}
		w.cleanupN = 0
	}

	e, ok := w.entries[key]
	if !ok {
		e = &windowEntry{started: now}
		w.entries[key] = e
		w.evictOverflowLocked(key)
	} else if now.Sub(e.started) >= w.window {
		// Window lapsed; open a fresh one.
		e.count = 0
		e.started = now
	}
	e.lastSeen = now

	if e.count >= w.limit {
		return false
	}
	e.count++
	return true
}

// evictOverflowLocked removes least-recently-seen entries until the tracked
// identity count is within bounds, never evicting keep. Caller holds mu.
func (w *WindowCounter) evictOverflowLocked(keep string) {
	for len(w.entries) > w.maxClients {
		var oldestKey string
		var oldest time.Time
		for k, e := range w.entries {
			if k == keep {
				continue
			}
			if oldestKey == "" || e.lastSeen.Before(oldest) {
				oldestKey = k
				oldest = e.lastSeen
			}
		}
		if oldestKey == "" {
			return
		}
		delete(w.entries, oldestKey)
	}
}

// Len reports the number of tracked identities. Intended for tests and
// debug endpoints.
func (w *WindowCounter) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}
