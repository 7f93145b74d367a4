package feed

import (
	"sync"
	"time"
)

// postCache keeps one value per topic slug for ttl, measured on an injected
// clock. A ttl of zero never expires entries.
type postCache[T any] struct {
	now     func() time.Time
	ttl     time.Duration
	mu      sync.Mutex
	entries map[string]cacheEntry[T]
	locks   map[string]*sync.Mutex
}

type cacheEntry[T any] struct {
	value    T
	storedAt time.Time
}

func newPostCache[T any](now func() time.Time, ttl time.Duration) *postCache[T] {
	return &postCache[T]{
		now:     now,
		ttl:     ttl,
		entries: make(map[string]cacheEntry[T]),
		locks:   make(map[string]*sync.Mutex),
	}
}

func (c *postCache[T]) get(slug string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[slug]
	if !ok {
		var zero T
		return zero, false
	}
	if c.ttl > 0 && c.now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, slug)
		var zero T
		return zero, false
	}
	return entry.value, true
}

func (c *postCache[T]) set(slug string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[slug] = cacheEntry[T]{value: value, storedAt: c.now()}
}

// lock serialises loads of the same slug so concurrent requests share one
// upstream walk.
func (c *postCache[T]) lock(slug string) func() {
	c.mu.Lock()
	l, ok := c.locks[slug]
	if !ok {
		l = &sync.Mutex{}
		c.locks[slug] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}
