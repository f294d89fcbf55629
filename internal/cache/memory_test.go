// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryCache_BasicOperations(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      time.Hour,
		CleanupInterval: 0, // No background cleanup for tests
	})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	// Test Set and Get
	if err := cache.Set(ctx, "key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := cache.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "value1" {
		t.Errorf("expected value1, got %s", string(val))
	}

	// Test Delete
	if err := cache.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := cache.Get(ctx, "key1"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}

	// Deleting a missing key is fine
	if err := cache.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) failed: %v", err)
	}
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	in := []byte("abc")
	_ = cache.Set(ctx, "k", in, 0)
	in[0] = 'X'

	out, _ := cache.Get(ctx, "k")
	if string(out) != "abc" {
		t.Fatalf("stored value was mutated through input slice: %q", out)
	}
	out[0] = 'Y'

	again, _ := cache.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("stored value was mutated through output slice: %q", again)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	if err := cache.Set(ctx, "short", []byte("v"), 20*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(40 * time.Millisecond)

	if _, err := cache.Get(ctx, "short"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestMemoryCache_CleanupLoop(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      time.Hour,
		CleanupInterval: 10 * time.Millisecond,
	})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "a", []byte("1"), 5*time.Millisecond)
	_ = cache.Set(ctx, "b", []byte("2"), time.Hour)

	deadline := time.Now().Add(time.Second)
	for storedEntries(cache) != 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if n := storedEntries(cache); n != 1 {
		t.Errorf("stored entries = %d after cleanup, want 1", n)
	}
}

func TestMemoryCache_Closed(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour, CleanupInterval: time.Minute})
	ctx := context.Background()

	if err := cache.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Double close is safe
	if err := cache.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	if _, err := cache.Get(ctx, "k"); err != ErrCacheClosed {
		t.Errorf("Get after close: %v, want ErrCacheClosed", err)
	}
	if err := cache.Set(ctx, "k", nil, 0); err != ErrCacheClosed {
		t.Errorf("Set after close: %v, want ErrCacheClosed", err)
	}
	if err := cache.Ping(ctx); err != ErrCacheClosed {
		t.Errorf("Ping after close: %v, want ErrCacheClosed", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%10)
			_ = cache.Set(ctx, key, []byte("v"), 0)
			_, _ = cache.Get(ctx, key)
			_ = cache.Delete(ctx, key)
		}(i)
	}
	wg.Wait()
}

// storedEntries counts raw entries, including expired ones not yet swept.
func storedEntries(c *MemoryCache) int {
	n := 0
	c.data.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
