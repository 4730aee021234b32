package rate

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter keeps per-key hit timestamps pruned to the trailing
// window, so limits are enforced over a rolling window rather than
// fixed buckets.
type MemoryLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	lastGC time.Time
	now    func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		hits:   make(map[string][]time.Time),
		lastGC: time.Now().UTC(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if now.Sub(l.lastGC) > time.Minute {
		for k, ts := range l.hits {
			if len(ts) == 0 || now.Sub(ts[len(ts)-1]) > 3*window {
				delete(l.hits, k)
			}
		}
		l.lastGC = now
	}

	cutoff := now.Add(-window)
	ts := l.hits[key]
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= limit {
		l.hits[key] = kept
		return false, nil
	}

	l.hits[key] = append(kept, now)
	return true, nil
}
