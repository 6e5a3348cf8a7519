package cache

import (
	"testing"
	"time"
)

func TestCacheSetGetDelete(t *testing.T) {
	c := New(time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("unexpected hit on empty cache")
	}

	c.Set("k", 42)

	v, ok := c.Get("k")

	if !ok || v.(int) != 42 {
		t.Fatalf("expected 42, got %v (ok=%v)", v, ok)
	}

	c.Delete("k")

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := New(10 * time.Millisecond)

	c.Set("k", "v")

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestCacheClear(t *testing.T) {
	c := New(time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)

	c.Clear()

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected empty cache after clear")
	}
}
