// Package rate provides the counter backends for the rate/abuse guard.
// The memory limiter is the reference (true rolling window); the Redis
// and Postgres backends trade that for shared fixed-window state across
// instances.
package rate

import (
	"context"
	"time"
)

type Limiter interface {
	// Allow records one hit against key and reports whether the key is
	// still within limit for the window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
