// ABOUTME: Tests for the caching generator decorator
// ABOUTME: Non-empty results are reused; absence is retried

package narrative

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingGenerator returns queued results and counts calls.
type countingGenerator struct {
	results []string
	errs    []error
	calls   int
}

func (g *countingGenerator) Generate(ctx context.Context, topic string) (string, error) {
	i := g.calls
	g.calls++
	var text string
	var err error
	if i < len(g.results) {
		text = g.results[i]
	}
	if i < len(g.errs) {
		err = g.errs[i]
	}
	return text, err
}

func TestCachedGenerator_ReusesGeneratedText(t *testing.T) {
	inner := &countingGenerator{results: []string{"first", "second"}}
	gen := NewCachedGenerator(inner, time.Minute)

	text, err := gen.Generate(context.Background(), "welcome")
	require.NoError(t, err)
	assert.Equal(t, "first", text)

	text, err = gen.Generate(context.Background(), "welcome")
	require.NoError(t, err)
	assert.Equal(t, "first", text, "second call must hit the cache")
	assert.Equal(t, 1, inner.calls)
}

func TestCachedGenerator_DistinctTopicsAreDistinctEntries(t *testing.T) {
	inner := &countingGenerator{results: []string{"a", "b"}}
	gen := NewCachedGenerator(inner, time.Minute)

	first, _ := gen.Generate(context.Background(), "topic-one")
	second, _ := gen.Generate(context.Background(), "topic-two")

	assert.Equal(t, "a", first)
	assert.Equal(t, "b", second)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedGenerator_AbsenceIsNotCached(t *testing.T) {
	inner := &countingGenerator{
		results: []string{"", "recovered"},
		errs:    []error{errors.New("backend down"), nil},
	}
	gen := NewCachedGenerator(inner, time.Minute)

	text, err := gen.Generate(context.Background(), "welcome")
	assert.Error(t, err)
	assert.Empty(t, text)

	text, err = gen.Generate(context.Background(), "welcome")
	require.NoError(t, err)
	assert.Equal(t, "recovered", text, "absence must be retried, not cached")
	assert.Equal(t, 2, inner.calls)
}
