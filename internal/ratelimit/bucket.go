// Token-bucket AdmissionStore, selectable via RATE_STRATEGY=bucket.
//
// Unlike the fixed-window counter, a token bucket enforces a smooth refill
// rate and caps worst-case bursts at the bucket size, closing the ~2x
// window-boundary loophole at the cost of slightly different semantics:
// tokens trickle back continuously instead of the counter resetting all at
// once.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// bucketEntry pairs a limiter with its last use for LRU eviction.
type bucketEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// BucketLimiter is a per-identity token-bucket AdmissionStore. The refill
// rate is limit/window and the burst size is limit, so a full window's
// allowance is available immediately to an idle identity.
//
// This type is safe for concurrent use.
type BucketLimiter struct {
	rps        rate.Limit
	burst      int
	window     time.Duration
	maxClients int

	mu       sync.Mutex
	entries  map[string]*bucketEntry
	cleanupN uint64
}

// NewBucketLimiter constructs a token-bucket store with the same
// (limit, window, maxClients) configuration surface as NewWindowCounter.
func NewBucketLimiter(limit int, window time.Duration, maxClients int) *BucketLimiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if maxClients <= 0 {
		maxClients = DefaultMaxClients
	}
	return &BucketLimiter{
		rps:        rate.Limit(float64(limit) / window.Seconds()),
		burst:      limit,
		window:     window,
		maxClients: maxClients,
		entries:    make(map[string]*bucketEntry),
	}
}

// Allow implements AdmissionStore.
func (b *BucketLimiter) Allow(key string) bool {
	now := time.Now()

	b.mu.Lock()

	b.cleanupN++
	if b.cleanupN >= cleanupEvery {
		for k, e := range b.entries {
			if now.Sub(e.lastSeen) >= b.window {
				delete(b.entries, k)
			}
		}
		b.cleanupN = 0
	}

	e, ok := b.entries[key]
	if !ok {
		e = &bucketEntry{lim: rate.NewLimiter(b.rps, b.burst)}
		b.entries[key] = e
		b.evictOverflowLocked(key)
	}
	e.lastSeen = now
	lim := e.lim
	b.mu.Unlock()

	return lim.Allow()
}

// evictOverflowLocked removes least-recently-seen entries until within
// bounds, never evicting keep. Caller holds mu.
func (b *BucketLimiter) evictOverflowLocked(keep string) {
	for len(b.entries) > b.maxClients {
		var oldestKey string
		var oldest time.Time
		for k, e := range b.entries {
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
		delete(b.entries, oldestKey)
	}
}
