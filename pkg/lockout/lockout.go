// Package lockout counts failed sign-in attempts per account inside a sliding
// window and reports when an account should be locked.
package lockout

import (
	"strings"
	"sync"
	"time"
)

type Tracker struct {
	maxFailures int
	window      time.Duration
	failures    map[string][]time.Time
	now         func() time.Time
	mu          sync.Mutex
}

func NewTracker(maxFailures int, window time.Duration) *Tracker {
	return &Tracker{
		maxFailures: maxFailures,
		window:      window,
		failures:    make(map[string][]time.Time),
		now:         time.Now,
	}
}

// RecordFailure registers a failed attempt for key and reports whether the
// failures inside the window reached the limit. Reaching the limit resets the
// count so the caller locks the account once.
func (t *Tracker) RecordFailure(key string) bool {
	key = normalize(key)
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	failures := cleanOldFailures(append(t.failures[key], now), now.Add(-t.window))

	if t.maxFailures > 0 && len(failures) >= t.maxFailures {
		delete(t.failures, key)
		return true
	}
	t.failures[key] = failures
	t.evict(now)
	return false
}

func (t *Tracker) RecordSuccess(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.failures, normalize(key))
}

func (t *Tracker) Failures(key string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(cleanOldFailures(t.failures[normalize(key)], t.now().Add(-t.window)))
}

// evict drops keys whose newest failure fell out of the window.
func (t *Tracker) evict(now time.Time) {
	cutoff := now.Add(-t.window)
	for key, failures := range t.failures {
		if len(failures) == 0 || !failures[len(failures)-1].After(cutoff) {
			delete(t.failures, key)
		}
	}
}

// failures are appended in time order, so everything before the first one
// after cutoff is stale.
func cleanOldFailures(failures []time.Time, cutoff time.Time) []time.Time {
	for i, f := range failures {
		if f.After(cutoff) {
			return failures[i:]
		}
	}
	return failures[:0]
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
