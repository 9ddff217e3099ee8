package engine

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache hit/miss counters.
var (
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
)

// Cache provides 2-tier caching: L1 in-memory + L2 Redis.
// L1 is fast but lost on restart. L2 survives restarts.
// A nil *Cache is valid and caches nothing.
type Cache struct {
	mu              sync.Mutex
	l1              map[string]cacheEntry
	rdb             *redis.Client // nil if Redis unavailable
	ttl             time.Duration
	maxEntries      int
	cleanupInterval time.Duration
	stop            chan struct{}
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewCache sets up the 2-tier cache. redisURL can be empty to disable L2.
// Close stops the L1 cleanup goroutine.
func NewCache(redisURL string, ttl time.Duration, maxEntries int, cleanupInterval time.Duration) *Cache {
	c := &Cache{l1: make(map[string]cacheEntry), ttl: ttl, maxEntries: maxEntries, cleanupInterval: cleanupInterval, stop: make(chan struct{})}

	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			slog.Warn("cache: invalid redis URL, L2 disabled", slog.Any("error", err))
		} else {
			rdb := redis.NewClient(opts)
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := rdb.Ping(ctx).Err(); err != nil {
				slog.Warn("cache: redis unreachable, L2 disabled", slog.Any("error", err))
				_ = rdb.Close()
			} else {
				c.rdb = rdb
				slog.Info("cache: L2 redis connected", slog.String("addr", opts.Addr))
			}
		}
	}

	slog.Info("cache: initialized", slog.Duration("ttl", ttl), slog.Bool("redis", c.rdb != nil), slog.Int("max_entries", maxEntries))

	go c.cleanupLoop()
	return c
}

// Redis returns the L2 client, or nil when L2 is disabled.
func (c *Cache) Redis() *redis.Client {
	if c == nil {
		return nil
	}
	return c.rdb
}

// Close stops background cleanup and closes the Redis client.
func (c *Cache) Close() {
	if c == nil {
		return
	}
	close(c.stop)
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
}

// CacheKey builds a deterministic cache key from parts.
func CacheKey(parts ...string) string {
	joined := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("ga:%x", hash[:12]) // 24-char hex prefix
}

// Get tries L1, then L2. On L2 hit, populates L1.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		cacheMisses.Add(1)
		return nil, false
	}
	if data, ok := c.getL1(key); ok {
		cacheHits.Add(1)
		return data, true
	}
	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			slog.Debug("cache: L2 hit", slog.String("key", key))
			cacheHits.Add(1)
			c.setL1(key, data)
			return data, true
		}
	}
	cacheMisses.Add(1)
	return nil, false
}

// Set stores value in both L1 and L2.
func (c *Cache) Set(ctx context.Context, key string, data []byte) {
	if c == nil {
		return
	}
	c.setL1(key, data)
	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			slog.Debug("cache: L2 set failed", slog.Any("error", err))
		}
	}
}

// Len returns the number of L1 entries, expired ones included.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.l1)
}

// CacheStats returns current cache hit/miss counters.
func CacheStats() (hits, misses int64) {
	return cacheHits.Load(), cacheMisses.Load()
}

func (c *Cache) getL1(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.l1[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.l1, key)
		return nil, false
	}
	return e.data, true
}

func (c *Cache) setL1(key string, data []byte) {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.l1[key]; !exists && c.maxEntries > 0 && len(c.l1) >= c.maxEntries {
		c.evictLocked(now)
	}
	c.l1[key] = cacheEntry{data: data, expiresAt: now.Add(c.ttl)}
}

// evictLocked drops expired entries, then the entries closest to expiry
// until there is room for one more. Caller holds c.mu.
func (c *Cache) evictLocked(now time.Time) {
	c.pruneLocked(now)
	for len(c.l1) >= c.maxEntries {
		var oldest string
		var at time.Time
		for k, e := range c.l1 {
			if oldest == "" || e.expiresAt.Before(at) {
				oldest, at = k, e.expiresAt
			}
		}
		delete(c.l1, oldest)
	}
}

func (c *Cache) pruneLocked(now time.Time) {
	for k, e := range c.l1 {
		if now.After(e.expiresAt) {
			delete(c.l1, k)
		}
	}
}

// LoadJSON tries to load a cached value of type T.
// Returns the decoded value and true on hit; zero value and false on miss or decode error.
func LoadJSON[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var out T
	data, ok := c.Get(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

// StoreJSON marshals v and stores it in the cache.
func StoreJSON[T any](ctx context.Context, c *Cache, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.Set(ctx, key, data)
}

// cleanupLoop periodically removes expired L1 entries.
func (c *Cache) cleanupLoop() {
	interval := c.cleanupInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			c.pruneLocked(now)
			c.mu.Unlock()
		}
	}
}
