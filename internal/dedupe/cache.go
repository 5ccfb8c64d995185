// ABOUTME: TTL cache of already-handled transport event IDs
// ABOUTME: The bridge consults it so Matrix sync redelivery cannot replay a flow step

package dedupe

import (
	"container/list"
	"sync"
	"time"
)

// entry stores the mark timestamp and list element for a cached event ID.
type entry struct {
	markedAt time.Time
	element  *list.Element
}

// Cache records event IDs the bridge has already handled. Matrix sync can
// redeliver events after reconnects; replaying one against the conversation
// engine would re-run a transition (and could re-issue a policy document), so
// every inbound event is checked here first.
//
// The cache is thread-safe, TTL-bounded, and size-bounded with oldest-first
// eviction via an insertion-order list.
type Cache struct {
	mu      sync.Mutex
	seen    map[string]*entry
	order   *list.List // event IDs in insertion order, oldest at front
	ttl     time.Duration
	maxSize int
	done    chan struct{}
	closed  bool
}

// New creates a dedupe cache. A background goroutine sweeps expired entries.
func New(ttl time.Duration, maxSize int) *Cache {
	c := &Cache{
		seen:    make(map[string]*entry),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
		done:    make(chan struct{}),
	}
	go c.sweepLoop()
	return c
}

// Seen atomically checks whether the event ID was already handled and marks
// it if not. Returns true for duplicates. The check and mark are one critical
// section so two goroutines racing on the same redelivered event cannot both
// proceed.
func (c *Cache) Seen(eventID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.seen[eventID]
	duplicate := ok && time.Since(e.markedAt) < c.ttl
	// Refresh on duplicates too, so a noisy event ID stays resident
	c.mark(eventID)
	return duplicate
}

// mark records an event ID, evicting the oldest entry at capacity.
// Must be called with mu held.
func (c *Cache) mark(eventID string) {
	now := time.Now()

	if e, exists := c.seen[eventID]; exists {
		e.markedAt = now
		c.order.MoveToBack(e.element)
		return
	}

	if len(c.seen) >= c.maxSize {
		front := c.order.Front()
		if front != nil {
			oldest, _ := front.Value.(string)
			c.order.Remove(front)
			delete(c.seen, oldest)
		}
	}

	elem := c.order.PushBack(eventID)
	c.seen[eventID] = &entry{markedAt: now, element: elem}
}

// sweepLoop periodically removes expired entries until Close is called.
func (c *Cache) sweepLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.done:
			return
		}
	}
}

// sweep removes all expired entries.
func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for eventID, e := range c.seen {
		if now.Sub(e.markedAt) > c.ttl {
			c.order.Remove(e.element)
			delete(c.seen, eventID)
		}
	}
}

// Close stops the background sweeper. Safe to call multiple times.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.done)
		c.closed = true
	}
}
