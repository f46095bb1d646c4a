// Package dedup implements the duplicate suppressor: a fingerprint-based
// idempotency guard that rejects a semantically identical order submitted
// again within a short window.
//
// The suppressor is a coarse defense against accidental double-submits
// (double-clicks, retried network requests), not a guarantee against
// distinct legitimate repeat orders placed deliberately after the window
// elapses. Fingerprints live in a bounded in-memory cache with TTL expiry
// and least-recently-used eviction; losing them on restart is acceptable
// because the window is minutes, not hours.
//
// A shared-store implementation (e.g., Redis-backed) can be substituted
// behind the DuplicateStore interface without touching the pipeline.
package dedup

import (
	"strings"
	"sync"
	"time"
)

// DuplicateStore answers whether an equivalent order was recently accepted.
// Implementations must be safe for concurrent use; IsDuplicate must be
// atomic check-and-mark so two racing identical submissions cannot both
// pass as first-seen.
type DuplicateStore interface {
	// IsDuplicate reports whether the (phone, productName) fingerprint was
	// already seen within the suppression window. A first-seen fingerprint
	// is recorded as a side effect.
	IsDuplicate(phone, productName string) bool

	// MarkProcessed records the fingerprint without checking it. Not used
	// by the default flow; available to integrators that accept orders
	// through other channels.
	MarkProcessed(phone, productName string)
}

// Default sizing, matching the production configuration.
const (
	DefaultWindow     = 5 * time.Minute
	DefaultMaxEntries = 1000
)

// Fingerprint derives the deduplication key from a phone number and the
// exact product name string. Spaces, hyphens, and plus signs are stripped
// from the phone so "+234 801..." and "0801-..." collide as intended.
func Fingerprint(phone, productName string) string {
	normalized := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '+':
			return -1
		}
		return r
	}, phone)
	return normalized + ":" + productName
}

// entry records when a fingerprint was seen (for TTL) and last touched
// (for LRU eviction).
type entry struct {
	seenAt   time.Time
	lastSeen time.Time
}

// Detector is the in-memory DuplicateStore. Safe for concurrent use.
type Detector struct {
	window     time.Duration
	maxEntries int

	mu      sync.Mutex
	entries map[string]*entry

	now func() time.Time // test seam
}

// NewDetector constructs a Detector with the given suppression window and
// cache bound. Non-positive arguments fall back to the package defaults.
func NewDetector(window time.Duration, maxEntries int) *Detector {
	if window <= 0 {
		window = DefaultWindow
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Detector{
		window:     window,
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
		now:        time.Now,
	}
}

// IsDuplicate implements DuplicateStore. The first call for a fingerprint
// returns false and marks it seen; every subsequent call within the window
// returns true; after expiry the cycle restarts.
func (d *Detector) IsDuplicate(phone, productName string) bool {
	key := Fingerprint(phone, productName)
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.entries[key]; ok && now.Sub(e.seenAt) < d.window {
		e.lastSeen = now
		return true
	}
	d.markLocked(key, now)
	return false
}

// MarkProcessed implements DuplicateStore.
func (d *Detector) MarkProcessed(phone, productName string) {
	key := Fingerprint(phone, productName)
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.markLocked(key, now)
}

// markLocked records key as seen at now and keeps the cache within bounds.
// Caller holds mu.
func (d *Detector) markLocked(key string, now time.Time) {
	d.entries[key] = &entry{seenAt: now, lastSeen: now}

	if len(d.entries) <= d.maxEntries {
		return
	}
	// Drop expired fingerprints first; fall back to LRU eviction.
	for k, e := range d.entries {
		if now.Sub(e.seenAt) >= d.window {
			delete(d.entries, k)
		}
	}
	for len(d.entries) > d.maxEntries {
		var oldestKey string
		var oldest time.Time
		for k, e := range d.entries {
			if k == key {
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
		delete(d.entries, oldestKey)
	}
}

// Len reports the number of cached fingerprints. Intended for tests.
func (d *Detector) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}
