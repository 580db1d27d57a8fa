package assist

import (
	"context"
	"strings"
	"testing"
	"time"
)

func newTestLimiter(start time.Time) (*RateLimiter, *time.Time) {
	clock := start
	rl := NewRateLimiter(NewMemoryWindowStore())
	rl.now = func() time.Time { return clock }
	return rl, &clock
}

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	rl, _ := newTestLimiter(time.Unix(1_700_000_000, 0))
	ctx := context.Background()

	for i := 0; i < maxRequests; i++ {
		if !rl.Allow(ctx, "k") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow(ctx, "k") {
		t.Fatal("request above the limit must be blocked")
	}
}

func TestRateLimiterCooldownExpires(t *testing.T) {
	rl, clock := newTestLimiter(time.Unix(1_700_000_000, 0))
	ctx := context.Background()

	for i := 0; i < maxRequests; i++ {
		rl.Allow(ctx, "k")
	}
	if rl.Allow(ctx, "k") {
		t.Fatal("fourth request must trigger the block")
	}

	// Still inside the cooldown.
	*clock = clock.Add(5 * time.Second)
	if rl.Allow(ctx, "k") {
		t.Fatal("request inside the cooldown must be blocked")
	}

	// Past the cooldown and past the sliding window.
	*clock = clock.Add(slidingWindow)
	if !rl.Allow(ctx, "k") {
		t.Fatal("request after cooldown and window expiry should pass")
	}
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	rl, clock := newTestLimiter(time.Unix(1_700_000_000, 0))
	ctx := context.Background()

	rl.Allow(ctx, "k")
	rl.Allow(ctx, "k")

	// The first two requests slide out of the window.
	*clock = clock.Add(slidingWindow + time.Second)

	for i := 0; i < maxRequests; i++ {
		if !rl.Allow(ctx, "k") {
			t.Fatalf("request %d after window expiry should be allowed", i+1)
		}
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(time.Unix(1_700_000_000, 0))
	ctx := context.Background()

	for i := 0; i < maxRequests; i++ {
		rl.Allow(ctx, "a")
	}
	if rl.Allow(ctx, "a") {
		t.Fatal("key a should be blocked")
	}
	if !rl.Allow(ctx, "b") {
		t.Fatal("key b must not inherit key a's block")
	}
}

func TestClientKeyStable(t *testing.T) {
	k1 := ClientKey("203.0.113.9", "Mozilla/5.0")
	k2 := ClientKey("203.0.113.9", "Mozilla/5.0")
	k3 := ClientKey("203.0.113.10", "Mozilla/5.0")

	if k1 != k2 {
		t.Fatal("same client must hash to the same key")
	}
	if k1 == k3 {
		t.Fatal("different clients must not collide")
	}
	if !strings.HasPrefix(k1, "assist_rl_") {
		t.Fatalf("unexpected key prefix: %s", k1)
	}
	if strings.Contains(k1, "203.0.113.9") {
		t.Fatal("raw ip must not appear in the key")
	}
}

func TestClientKeyTruncatesLongUserAgent(t *testing.T) {
	long := strings.Repeat("x", 200)

	// Only the first 60 bytes of the user agent participate.
	if ClientKey("ip", long) != ClientKey("ip", long[:60]) {
		t.Fatal("user agent beyond 60 bytes must not change the key")
	}
}
