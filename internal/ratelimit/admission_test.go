package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestWindowCounter_ExactlyLimitAdmitted(t *testing.T) {
	w := NewWindowCounter(3, time.Minute, 10)

	for i := 0; i < 3; i++ {
		if !w.Allow("1.2.3.4") {
			t.Fatalf("request %d should be admitted", i+1)
		}
	}
	for i := 0; i < 5; i++ {
		if w.Allow("1.2.3.4") {
			t.Fatalf("request beyond limit should be denied (attempt %d)", i+1)
		}
	}
}

func TestWindowCounter_IdentitiesAreIndependent(t *testing.T) {
	w := NewWindowCounter(1, time.Minute, 10)

	if !w.Allow("a") {
		t.Fatal("first request for a should pass")
	}
	if w.Allow("a") {
		t.Fatal("second request for a should be denied")
	}
	if !w.Allow("b") {
		t.Fatal("b must not be affected by a's exhaustion")
	}
}

func TestWindowCounter_WindowReset(t *testing.T) {
	w := NewWindowCounter(2, time.Minute, 10)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	w.now = func() time.Time { return now }

	w.Allow("k")
	w.Allow("k")
	if w.Allow("k") {
		t.Fatal("third request inside the window should be denied")
	}

	// One second short of the window boundary: still the same window.
	now = base.Add(59 * time.Second)
	if w.Allow("k") {
		t.Fatal("request before the window elapses should still be denied")
	}

	now = base.Add(time.Minute)
	if !w.Allow("k") {
		t.Fatal("counter should reset once the window has fully elapsed")
	}
	if !w.Allow("k") {
		t.Fatal("fresh window should admit up to the limit again")
	}
	if w.Allow("k") {
		t.Fatal("fresh window should still enforce the limit")
	}
}

func TestWindowCounter_DeniedAttemptsDoNotExtendWindow(t *testing.T) {
	w := NewWindowCounter(1, time.Minute, 10)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	w.now = func() time.Time { return now }

	w.Allow("k")
	for i := 0; i < 10; i++ {
		now = now.Add(5 * time.Second)
		w.Allow("k")
	}
	// The window opened at base; hammering during it must not push the
	// reset point forward.
	now = base.Add(time.Minute)
	if !w.Allow("k") {
		t.Fatal("denied attempts must not extend the window")
	}
}

func TestWindowCounter_LRUEviction(t *testing.T) {
	w := NewWindowCounter(5, time.Minute, 3)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	w.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		w.Allow(fmt.Sprintf("client-%d", i))
		now = now.Add(time.Second)
	}
	if got := w.Len(); got != 3 {
		t.Fatalf("expected 3 tracked identities, got %d", got)
	}

	// A fourth identity evicts the least recently seen (client-0).
	w.Allow("client-3")
	if got := w.Len(); got != 3 {
		t.Fatalf("tracked identities must stay bounded, got %d", got)
	}

	// client-0 was evicted, so it starts a fresh counter rather than
	// inheriting its old one.
	for i := 0; i < 5; i++ {
		if !w.Allow("client-0") {
			t.Fatalf("evicted identity should get a fresh allowance (request %d)", i+1)
		}
	}
}

func TestWindowCounter_CleanupPurgesExpired(t *testing.T) {
	w := NewWindowCounter(5, time.Minute, 1000)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	w.now = func() time.Time { return now }

	w.Allow("stale-1")
	w.Allow("stale-2")

	now = base.Add(2 * time.Minute)
	w.cleanupN = cleanupEvery - 1 // force the purge on the next call
	w.Allow("fresh")

	if got := w.Len(); got != 1 {
		t.Fatalf("expected only the fresh identity to survive, got %d", got)
	}
}

func TestWindowCounter_ConcurrentSameKey(t *testing.T) {
	const limit = 50
	w := NewWindowCounter(limit, time.Minute, 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if w.Allow("shared") {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != limit {
		t.Fatalf("expected exactly %d admissions, got %d", limit, admitted)
	}
}

func TestNewWindowCounter_DefaultsOnNonPositive(t *testing.T) {
	w := NewWindowCounter(0, 0, -1)
	if w.limit != DefaultLimit || w.window != DefaultWindow || w.maxClients != DefaultMaxClients {
		t.Fatalf("defaults not applied: %+v", w)
	}
}

func TestBucketLimiter_BurstThenDeny(t *testing.T) {
	b := NewBucketLimiter(3, time.Hour, 10)

	for i := 0; i < 3; i++ {
		if !b.Allow("1.2.3.4") {
			t.Fatalf("burst request %d should be admitted", i+1)
		}
	}
	// Refill is 3/hour, so the very next request cannot have a token yet.
	if b.Allow("1.2.3.4") {
		t.Fatal("request beyond the burst should be denied")
	}
	if !b.Allow("other") {
		t.Fatal("a different identity gets its own bucket")
	}
}

func TestBucketLimiter_LRUEviction(t *testing.T) {
	b := NewBucketLimiter(5, time.Hour, 2)

	b.Allow("a")
	time.Sleep(time.Millisecond)
	b.Allow("b")
	time.Sleep(time.Millisecond)
	b.Allow("c")

	b.mu.Lock()
	n := len(b.entries)
	_, hasA := b.entries["a"]
	b.mu.Unlock()

	if n != 2 {
		t.Fatalf("tracked identities must stay bounded, got %d", n)
	}
	if hasA {
		t.Fatal("least recently seen identity should have been evicted")
	}
}
