package middleware

import (
	"testing"
	"time"
)

func TestRateLimiter_SweepsOncePerIdleInterval(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(10)
	rl.now = func() time.Time { return now }

	rl.allow("10.0.0.1")
	sweptAt := rl.lastSweep

	// Past the idle window for 10.0.0.1, but a sweep ran moments ago.
	now = now.Add(rl.idle - time.Second)
	rl.allow("10.0.0.2")
	if !rl.lastSweep.Equal(sweptAt) {
		t.Fatalf("swept again after %v, want at most once per %v", rl.lastSweep.Sub(sweptAt), rl.idle)
	}

	now = now.Add(2 * time.Second)
	rl.allow("10.0.0.2")
	if rl.lastSweep.Equal(sweptAt) {
		t.Fatal("expected a sweep once the idle interval elapsed")
	}
	if _, ok := rl.visitors["10.0.0.1"]; ok {
		t.Error("idle visitor 10.0.0.1 should have been removed")
	}
	if _, ok := rl.visitors["10.0.0.2"]; !ok {
		t.Error("active visitor 10.0.0.2 should be kept")
	}
}
