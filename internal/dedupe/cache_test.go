// ABOUTME: Tests for the transport event dedupe cache
// ABOUTME: Verifies mark-on-first-sight, TTL expiry, and size-bounded eviction

package dedupe

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_FirstSightIsNotDuplicate(t *testing.T) {
	c := New(time.Minute, 100)
	defer c.Close()

	assert.False(t, c.Seen("$event1"))
	assert.True(t, c.Seen("$event1"))
	assert.False(t, c.Seen("$event2"))
}

func TestCache_ExpiredEntriesAreForgotten(t *testing.T) {
	c := New(20*time.Millisecond, 100)
	defer c.Close()

	assert.False(t, c.Seen("$event1"))
	time.Sleep(40 * time.Millisecond)
	assert.False(t, c.Seen("$event1"), "expired entry must not count as seen")
}

func TestCache_EvictsOldestAtCapacity(t *testing.T) {
	c := New(time.Minute, 3)
	defer c.Close()

	c.Seen("$a")
	c.Seen("$b")
	c.Seen("$c")
	c.Seen("$d") // evicts $a

	assert.False(t, c.Seen("$a"), "oldest entry must be evicted")
	assert.True(t, c.Seen("$d"))
}

func TestCache_ReseeingMovesEntryToBack(t *testing.T) {
	c := New(time.Minute, 3)
	defer c.Close()

	c.Seen("$a")
	c.Seen("$b")
	c.Seen("$c")
	c.Seen("$a") // duplicate, but refreshes position
	c.Seen("$d") // should evict $b, not $a

	assert.True(t, c.Seen("$a"))
	assert.False(t, c.Seen("$b"))
}

func TestCache_ConcurrentSeenIsRaceFree(t *testing.T) {
	c := New(time.Minute, 1000)
	defer c.Close()

	var wg sync.WaitGroup
	duplicates := make([]bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			duplicates[n] = c.Seen(fmt.Sprintf("$event%d", n%10))
		}(i)
	}
	wg.Wait()

	// Each of the 10 distinct IDs must have been admitted exactly once
	admitted := 0
	for _, dup := range duplicates {
		if !dup {
			admitted++
		}
	}
	assert.Equal(t, 10, admitted)
}

func TestCache_CloseIsIdempotent(t *testing.T) {
	c := New(time.Minute, 10)
	c.Close()
	c.Close()
}
