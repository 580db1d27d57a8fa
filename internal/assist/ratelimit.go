package assist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	slidingWindow = 30 * time.Second
	maxRequests   = 3
	blockCooldown = 10 * time.Second
)

// Window is the per-client state: request timestamps inside the sliding
// window plus the instant the hard block was triggered (zero when none).
type Window struct {
	Timestamps []int64 `json:"ts"`
	BlockedAt  int64   `json:"block"`
}

// WindowStore persists rate-limit windows. Implementations are advisory:
// a store error is treated as "allow".
type WindowStore interface {
	Get(ctx context.Context, key string) (Window, bool, error)
	Set(ctx context.Context, key string, w Window, ttl time.Duration) error
}

// RateLimiter enforces the widget throttle: at most 3 requests per rolling
// 30 seconds per client key, then a 10 second hard cooldown.
type RateLimiter struct {
	store WindowStore
	now   func() time.Time
}

func NewRateLimiter(store WindowStore) *RateLimiter {
	return &RateLimiter{
		store: store,
		now:   time.Now,
	}
}

// ClientKey hashes IP and user agent so raw client identifiers never reach
// the store.
func ClientKey(ip, userAgent string) string {
	if len(userAgent) > 60 {
		userAgent = userAgent[:60]
	}
	sum := sha256.Sum256([]byte(ip + "|" + userAgent))
	return "assist_rl_" + hex.EncodeToString(sum[:])
}

// Allow records the request when permitted. It returns false while the
// client is throttled.
func (rl *RateLimiter) Allow(ctx context.Context, key string) bool {
	now := rl.now()
	nowUnix := now.Unix()

	w, _, err := rl.store.Get(ctx, key)
	if err != nil {
		return true
	}

	// Drop timestamps that slid out of the window.
	kept := w.Timestamps[:0]
	for _, ts := range w.Timestamps {
		if now.Sub(time.Unix(ts, 0)) < slidingWindow {
			kept = append(kept, ts)
		}
	}
	w.Timestamps = kept

	if w.BlockedAt != 0 {
		if now.Sub(time.Unix(w.BlockedAt, 0)) < blockCooldown {
			return false
		}
		w.BlockedAt = 0
	}

	if len(w.Timestamps) >= maxRequests {
		w.BlockedAt = nowUnix
		_ = rl.store.Set(ctx, key, w, slidingWindow)
		return false
	}

	w.Timestamps = append(w.Timestamps, nowUnix)
	_ = rl.store.Set(ctx, key, w, slidingWindow)
	return true
}

// --------------------------------------------------
// Redis-backed store
// --------------------------------------------------

type RedisWindowStore struct {
	client *redis.Client
}

func NewRedisWindowStore(client *redis.Client) *RedisWindowStore {
	return &RedisWindowStore{client: client}
}

func (s *RedisWindowStore) Get(ctx context.Context, key string) (Window, bool, error) {
	raw, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return Window{}, false, nil
	}
	if err != nil {
		return Window{}, false, err
	}

	var w Window
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return Window{}, false, nil
	}
	return w, true, nil
}

func (s *RedisWindowStore) Set(ctx context.Context, key string, w Window, ttl time.Duration) error {
	b, err := json.Marshal(w)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, ttl).Err()
}

// --------------------------------------------------
// In-memory store (tests, redis-less development)
// --------------------------------------------------

type MemoryWindowStore struct {
	mu      sync.Mutex
	windows map[string]Window
}

func NewMemoryWindowStore() *MemoryWindowStore {
	return &MemoryWindowStore{windows: make(map[string]Window)}
}

func (s *MemoryWindowStore) Get(_ context.Context, key string) (Window, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[key]
	return w, ok, nil
}

func (s *MemoryWindowStore) Set(_ context.Context, key string, w Window, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows[key] = w
	return nil
}
