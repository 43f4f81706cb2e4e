package npu

// ---------------------------------------------------------------------------
// PatternCache: bounded LRU over pattern lookups
// ---------------------------------------------------------------------------

// PatternCache is a bounded least-recently-used cache in front of the
// pattern store. Entries live in a slot arena threaded by an intrusive
// doubly linked list, so lookup, insert, and eviction are all O(1): the
// hash index finds the slot, the list maintains recency order, and the
// tail slot is always the eviction victim.
//
// A capacity of zero or less disables the cache: lookups never hit,
// inserts are dropped, and no statistics are recorded.
type PatternCache struct {
	capacity int
	index    map[int]int // pattern id -> slot arena index
	slots    []cacheSlot
	free     []int
	head     int // most recently used, -1 when empty
	tail     int // least recently used, -1 when empty

	Hits   uint64
	Misses uint64
}

type cacheSlot struct {
	key        int
	rec        *Pattern
	prev, next int
}

// NewPatternCache creates a cache holding at most capacity patterns.
func NewPatternCache(capacity int) *PatternCache {
	c := &PatternCache{capacity: capacity, head: -1, tail: -1}
	if capacity > 0 {
		c.index = make(map[int]int, capacity)
		c.slots = make([]cacheSlot, 0, capacity)
	}
	return c
}

// Enabled reports whether the cache holds anything at all.
func (c *PatternCache) Enabled() bool {
	return c.capacity > 0
}

// Len returns the number of cached patterns.
func (c *PatternCache) Len() int {
	return len(c.index)
}

// Get returns the cached pattern for id, promoting it to most recently
// used. A miss is counted but never populates the cache; insertion is the
// caller's call via Put.
func (c *PatternCache) Get(id int) (*Pattern, bool) {
	if c.capacity <= 0 {
		return nil, false
	}
	si, ok := c.index[id]
	if !ok {
		c.Misses++
		return nil, false
	}
	c.Hits++
	if si != c.head {
		c.unlink(si)
		c.pushFront(si)
	}
	return c.slots[si].rec, true
}

// Put inserts or refreshes the pattern for id, evicting the least
// recently used entry when the cache is full.
func (c *PatternCache) Put(id int, rec *Pattern) {
	if c.capacity <= 0 {
		return
	}
	if si, ok := c.index[id]; ok {
		c.slots[si].rec = rec
		if si != c.head {
			c.unlink(si)
			c.pushFront(si)
		}
		return
	}
	if len(c.index) >= c.capacity {
		victim := c.tail
		c.unlink(victim)
		delete(c.index, c.slots[victim].key)
		c.slots[victim].rec = nil
		c.free = append(c.free, victim)
	}
	var si int
	if n := len(c.free); n > 0 {
		si = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		c.slots = append(c.slots, cacheSlot{})
		si = len(c.slots) - 1
	}
	c.slots[si] = cacheSlot{key: id, rec: rec, prev: -1, next: -1}
	c.index[id] = si
	c.pushFront(si)
}

// Flush empties the cache and resets the hit and miss counters.
func (c *PatternCache) Flush() {
	if c.capacity <= 0 {
		return
	}
	c.index = make(map[int]int, c.capacity)
	c.slots = c.slots[:0]
	c.free = c.free[:0]
	c.head, c.tail = -1, -1
	c.Hits, c.Misses = 0, 0
}

// HitRate returns hits over total lookups, 0 when nothing has been
// looked up yet.
func (c *PatternCache) HitRate() float64 {
	total := c.Hits + c.Misses
	if total == 0 {
		return 0
	}
	return float64(c.Hits) / float64(total)
}

func (c *PatternCache) unlink(si int) {
	s := &c.slots[si]
	if s.prev >= 0 {
		c.slots[s.prev].next = s.next
	} else {
		c.head = s.next
	}
	if s.next >= 0 {
		c.slots[s.next].prev = s.prev
	} else {
		c.tail = s.prev
	}
	s.prev, s.next = -1, -1
}

func (c *PatternCache) pushFront(si int) {
	s := &c.slots[si]
	s.prev = -1
	s.next = c.head
	if c.head >= 0 {
		c.slots[c.head].prev = si
	}
	c.head = si
	if c.tail < 0 {
		c.tail = si
	}
}
