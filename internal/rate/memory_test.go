package rate

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterBoundary(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		ok, err := l.Allow(ctx, "signals:u1", 10, 5*time.Minute)
		if err != nil {
			t.Fatalf("Allow #%d: %v", i+1, err)
		}
		if !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, err := l.Allow(ctx, "signals:u1", 10, 5*time.Minute)
	if err != nil {
		t.Fatalf("Allow #11: %v", err)
	}
	if ok {
		t.Error("request 11 should be denied")
	}

	// A different key is unaffected.
	ok, _ = l.Allow(ctx, "signals:u2", 10, 5*time.Minute)
	if !ok {
		t.Error("other user should not share the counter")
	}
}

func TestMemoryLimiterRollingWindow(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base
	l.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		if ok, _ := l.Allow(ctx, "k", 3, 5*time.Minute); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if ok, _ := l.Allow(ctx, "k", 3, 5*time.Minute); ok {
		t.Fatal("4th request inside the window should be denied")
	}

	// Still denied while the hits remain inside the trailing window.
	current = base.Add(4 * time.Minute)
	if ok, _ := l.Allow(ctx, "k", 3, 5*time.Minute); ok {
		t.Fatal("request inside the trailing window should be denied")
	}

	// Once the hits age out, capacity frees up.
	current = base.Add(5*time.Minute + time.Second)
	if ok, _ := l.Allow(ctx, "k", 3, 5*time.Minute); !ok {
		t.Fatal("request after the window rolled should be allowed")
	}
}
