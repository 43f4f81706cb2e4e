package npu

import "testing"

func cachePattern(id int) *Pattern {
	return &Pattern{ID: id, Name: "pattern"}
}

func TestCacheMissOnEmpty(t *testing.T) {
	c := NewPatternCache(4)

	if _, ok := c.Get(1); ok {
		t.Error("Expected miss on empty cache, got hit")
	}
	if c.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", c.Misses)
	}
	if c.Hits != 0 {
		t.Errorf("Expected 0 hits, got %d", c.Hits)
	}
}

func TestCacheHit(t *testing.T) {
	c := NewPatternCache(4)
	c.Put(7, cachePattern(7))

	rec, ok := c.Get(7)
	if !ok {
		t.Fatal("Expected hit after Put, got miss")
	}
	if rec.ID != 7 {
		t.Errorf("Expected pattern 7, got %d", rec.ID)
	}
	if c.Hits != 1 {
		t.Errorf("Expected 1 hit, got %d", c.Hits)
	}
	if c.Misses != 0 {
		t.Errorf("Expected 0 misses, got %d", c.Misses)
	}
}

func TestCacheEviction(t *testing.T) {
	c := NewPatternCache(3)
	for id := 1; id <= 3; id++ {
		c.Put(id, cachePattern(id))
	}

	// Inserting a fourth entry evicts the least recently used (1).
	c.Put(4, cachePattern(4))

	if c.Len() != 3 {
		t.Errorf("Expected len 3 after eviction, got %d", c.Len())
	}
	if _, ok := c.Get(1); ok {
		t.Error("Expected 1 to be evicted, got hit")
	}
	for id := 2; id <= 4; id++ {
		if _, ok := c.Get(id); !ok {
			t.Errorf("Expected %d to survive eviction, got miss", id)
		}
	}
}

func TestCacheLRUOrder(t *testing.T) {
	c := NewPatternCache(3)
	for id := 1; id <= 3; id++ {
		c.Put(id, cachePattern(id))
	}

	// Touching 1 promotes it, so the next eviction takes 2.
	if _, ok := c.Get(1); !ok {
		t.Fatal("Expected hit on 1")
	}
	c.Put(4, cachePattern(4))

	if _, ok := c.Get(2); ok {
		t.Error("Expected 2 to be evicted after 1 was touched, got hit")
	}
	if _, ok := c.Get(1); !ok {
		t.Error("Expected 1 to survive, got miss")
	}
}

func TestCachePutRefresh(t *testing.T) {
	c := NewPatternCache(2)
	c.Put(1, cachePattern(1))
	c.Put(2, cachePattern(2))

	// Re-putting 1 refreshes it; eviction then takes 2.
	updated := &Pattern{ID: 1, Name: "updated"}
	c.Put(1, updated)
	c.Put(3, cachePattern(3))

	rec, ok := c.Get(1)
	if !ok {
		t.Fatal("Expected refreshed entry to survive, got miss")
	}
	if rec.Name != "updated" {
		t.Errorf("Expected refreshed record, got %q", rec.Name)
	}
	if _, ok := c.Get(2); ok {
		t.Error("Expected 2 to be evicted, got hit")
	}
}

func TestCacheDisabled(t *testing.T) {
	c := NewPatternCache(0)

	if c.Enabled() {
		t.Error("Expected zero-capacity cache to be disabled")
	}
	c.Put(1, cachePattern(1))
	if c.Len() != 0 {
		t.Errorf("Expected disabled cache to stay empty, got len %d", c.Len())
	}
	if _, ok := c.Get(1); ok {
		t.Error("Expected miss from disabled cache, got hit")
	}
	if c.Hits != 0 || c.Misses != 0 {
		t.Errorf("Expected disabled cache to count no traffic, got %d/%d", c.Hits, c.Misses)
	}
}

func TestCacheFlush(t *testing.T) {
	c := NewPatternCache(4)
	c.Put(1, cachePattern(1))
	c.Get(1)
	c.Get(2)

	c.Flush()

	if c.Len() != 0 {
		t.Errorf("Expected empty cache after flush, got len %d", c.Len())
	}
	if c.Hits != 0 || c.Misses != 0 {
		t.Errorf("Expected counters reset after flush, got %d/%d", c.Hits, c.Misses)
	}
	if _, ok := c.Get(1); ok {
		t.Error("Expected miss after flush, got hit")
	}
}

func TestCacheHitRate(t *testing.T) {
	c := NewPatternCache(4)

	if got := c.HitRate(); got != 0 {
		t.Errorf("HitRate with no traffic = %v, want 0", got)
	}

	c.Put(1, cachePattern(1))
	c.Get(1)
	c.Get(1)
	c.Get(1)
	c.Get(9)

	if got := c.HitRate(); got != 0.75 {
		t.Errorf("HitRate = %v, want 0.75", got)
	}
}

func TestCacheMissDoesNotInsert(t *testing.T) {
	c := NewPatternCache(2)

	c.Get(5)
	c.Get(5)

	if c.Len() != 0 {
		t.Errorf("Expected misses to leave cache empty, got len %d", c.Len())
	}
	if c.Misses != 2 {
		t.Errorf("Expected 2 misses, got %d", c.Misses)
	}
}
