// ABOUTME: TTL-caching decorator for narrative generators
// ABOUTME: Repeated topics (welcome, price disclosure) reuse the last generated text

package narrative

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedGenerator wraps a Generator with a TTL cache keyed by topic. The
// stock prompts (welcome, document request, price disclosure, closing) repeat
// for every user, so caching avoids a remote call per message. Absent results
// are not cached; the next call retries the backend.
type CachedGenerator struct {
	inner Generator
	cache *gocache.Cache
}

// NewCachedGenerator wraps gen with a cache holding entries for ttl.
func NewCachedGenerator(gen Generator, ttl time.Duration) *CachedGenerator {
	return &CachedGenerator{
		inner: gen,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Generate returns the cached text for the topic, or consults the inner
// generator and caches a non-empty result.
func (c *CachedGenerator) Generate(ctx context.Context, topic string) (string, error) {
	if cached, ok := c.cache.Get(topic); ok {
		if text, ok := cached.(string); ok {
			return text, nil
		}
	}

	text, err := c.inner.Generate(ctx, topic)
	if err != nil || text == "" {
		return "", err
	}

	c.cache.SetDefault(topic, text)
	return text, nil
}
