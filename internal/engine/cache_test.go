package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestCacheKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		k1 := CacheKey("coach", "user-1", "finance")
		k2 := CacheKey("coach", "user-1", "finance")
		if k1 != k2 {
			t.Errorf("CacheKey not deterministic: %q != %q", k1, k2)
		}
	})

	t.Run("different inputs differ", func(t *testing.T) {
		k1 := CacheKey("coach", "user-1")
		k2 := CacheKey("coach", "user-2")
		if k1 == k2 {
			t.Errorf("different inputs produced same key: %q", k1)
		}
	})

	t.Run("has prefix", func(t *testing.T) {
		k := CacheKey("test")
		if !strings.HasPrefix(k, "ga:") {
			t.Errorf("expected ga: prefix, got %q", k)
		}
		if len(k) != 3+24 {
			t.Errorf("expected 24 hex chars after prefix, got %q", k)
		}
	})
}

func TestCacheGetSet(t *testing.T) {
	c := NewCache("", time.Minute, 100, 5*time.Minute)
	defer c.Close()

	ctx := context.Background()
	key := CacheKey("test", "round-trip")

	if _, ok := c.Get(ctx, key); ok {
		t.Error("expected cache miss on empty cache")
	}

	c.Set(ctx, key, []byte("hello"))

	got, ok := c.Get(ctx, key)
	if !ok {
		t.Fatal("expected cache hit after set")
	}
	if string(got) != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestCacheJSONRoundTrip(t *testing.T) {
	c := NewCache("", time.Minute, 100, 5*time.Minute)
	defer c.Close()

	type insight struct {
		KeyInsight string   `json:"keyInsight"`
		Actions    []string `json:"actions"`
	}
	ctx := context.Background()
	key := CacheKey("coach", "json")

	StoreJSON(ctx, c, key, insight{KeyInsight: "start early", Actions: []string{"a", "b"}})
	got, ok := LoadJSON[insight](ctx, c, key)
	if !ok {
		t.Fatal("expected hit")
	}
	if got.KeyInsight != "start early" || len(got.Actions) != 2 {
		t.Errorf("unexpected value: %+v", got)
	}

	c.Set(ctx, key, []byte("not json"))
	if _, ok := LoadJSON[insight](ctx, c, key); ok {
		t.Error("expected miss on undecodable value")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := NewCache("", time.Millisecond, 100, 5*time.Minute)
	defer c.Close()

	ctx := context.Background()
	key := CacheKey("test", "expiry")

	c.Set(ctx, key, []byte("temp"))
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get(ctx, key); ok {
		t.Error("expected cache miss after TTL expiry")
	}
}

func TestCacheEviction(t *testing.T) {
	c := NewCache("", time.Minute, 3, 5*time.Minute)
	defer c.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		key := CacheKey("evict", fmt.Sprintf("item-%d", i))
		c.Set(ctx, key, []byte(fmt.Sprintf("v%d", i)))
	}

	if count := c.Len(); count > 3 {
		t.Errorf("expected at most 3 entries after eviction, got %d", count)
	}
}

func TestNilCache(t *testing.T) {
	var c *Cache
	ctx := context.Background()
	c.Set(ctx, "k", []byte("v"))
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("nil cache must never hit")
	}
	if c.Redis() != nil {
		t.Error("nil cache has no redis client")
	}
	c.Close()
}

func TestCacheStats(t *testing.T) {
	c := NewCache("", time.Minute, 100, 5*time.Minute)
	defer c.Close()
	cacheHits.Store(0)
	cacheMisses.Store(0)

	ctx := context.Background()
	key := CacheKey("stats", "test")

	c.Get(ctx, key)
	_, misses := CacheStats()
	if misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}

	c.Set(ctx, key, []byte("x"))
	c.Get(ctx, key)

	hits, misses := CacheStats()
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
	if misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}
}
