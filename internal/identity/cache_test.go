package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/totals-engine/internal/models"
)

type countingLookup struct {
	franchises map[int64]int64
	calls      int
	err        error
}

func (l *countingLookup) GetFranchiseID(ctx context.Context, teamID int64) (*int64, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	if id, ok := l.franchises[teamID]; ok {
		return &id, nil
	}
	return nil, nil
}

func TestCacheGetSet(t *testing.T) {
	c := NewCache(time.Hour, 100)
	defer c.Clear()

	_, found := c.Get("nba", 10)
	assert.False(t, found)

	franchise := int64(501)
	c.Set("nba", 10, &franchise)
	id, found := c.Get("nba", 10)
	require.True(t, found)
	require.NotNil(t, id)
	assert.Equal(t, int64(501), *id)

	c.Set("nba", 11, nil)
	id, found = c.Get("nba", 11)
	assert.True(t, found)
	assert.Nil(t, id)

	// same team id in another sport is a different entry
	_, found = c.Get("nhl", 10)
	assert.False(t, found)

	hits, misses, ratio := c.Stats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(2), misses)
	assert.Equal(t, 0.5, ratio)
}

func TestCacheMaxSize(t *testing.T) {
	c := NewCache(time.Hour, 2)
	c.Set("nba", 1, nil)
	c.Set("nba", 2, nil)
	c.Set("nba", 3, nil)
	assert.Equal(t, 2, c.ItemCount())
}

func TestResolverUsesCache(t *testing.T) {
	lookup := &countingLookup{franchises: map[int64]int64{7: 900}}
	r := NewResolver(lookup, NewCache(time.Minute, 10))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ref, err := r.Resolve(ctx, "nfl", 7)
		require.NoError(t, err)
		require.NotNil(t, ref.FranchiseID)
		assert.Equal(t, int64(900), *ref.FranchiseID)
	}
	assert.Equal(t, 1, lookup.calls)

	ref, err := r.Resolve(ctx, "nfl", 8)
	require.NoError(t, err)
	assert.Nil(t, ref.FranchiseID)
	_, err = r.Resolve(ctx, "nfl", 8)
	require.NoError(t, err)
	assert.Equal(t, 2, lookup.calls)
}

func TestResolverIsolatedCaches(t *testing.T) {
	lookup := &countingLookup{franchises: map[int64]int64{7: 900}}
	ctx := context.Background()

	_, err := NewResolver(lookup, NewCache(time.Minute, 10)).Resolve(ctx, "nfl", 7)
	require.NoError(t, err)
	_, err = NewResolver(lookup, NewCache(time.Minute, 10)).Resolve(ctx, "nfl", 7)
	require.NoError(t, err)
	assert.Equal(t, 2, lookup.calls)
}

func TestResolvePair(t *testing.T) {
	lookup := &countingLookup{franchises: map[int64]int64{1: 100, 2: 200}}
	r := NewResolver(lookup, NewCache(time.Minute, 10))

	given := int64(555)
	a, b, err := r.ResolvePair(context.Background(), "nba", models.TeamRef{TeamID: 1, FranchiseID: &given}, models.TeamRef{TeamID: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(555), *a.FranchiseID)
	assert.Equal(t, int64(200), *b.FranchiseID)
	assert.Equal(t, 1, lookup.calls)
}

func TestResolverLookupFailure(t *testing.T) {
	r := NewResolver(&countingLookup{err: errors.New("db down")}, NewCache(time.Minute, 10))
	_, err := r.Resolve(context.Background(), "nba", 3)
	assert.True(t, errors.Is(err, models.ErrCollaborator))
}

// blockingLookup holds every lookup until release is closed and fails if its
// context was cancelled in the meantime.
type blockingLookup struct {
	entered chan struct{}
	release chan struct{}
}

func (l *blockingLookup) GetFranchiseID(ctx context.Context, teamID int64) (*int64, error) {
	select {
	case l.entered <- struct{}{}:
	default:
	}
	<-l.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := teamID * 10
	return &id, nil
}

func TestResolverLookupOutlivesCallerContext(t *testing.T) {
	lookup := &blockingLookup{entered: make(chan struct{}, 1), release: make(chan struct{})}
	resolver := NewResolver(lookup, NewCache(time.Minute, 10))

	ctx, cancel := context.WithCancel(context.Background())
	type result struct {
		ref models.TeamRef
		err error
	}
	first := make(chan result, 1)
	go func() {
		ref, err := resolver.Resolve(ctx, "nba", 4)
		first <- result{ref, err}
	}()

	<-lookup.entered
	waiter := make(chan result, 1)
	go func() {
		ref, err := resolver.Resolve(context.Background(), "nba", 4)
		waiter <- result{ref, err}
	}()

	cancel()
	close(lookup.release)

	for _, ch := range []chan result{first, waiter} {
		got := <-ch
		require.NoError(t, got.err)
		require.NotNil(t, got.ref.FranchiseID)
		assert.Equal(t, int64(40), *got.ref.FranchiseID)
	}

	cached, ok := resolver.cache.Get("nba", 4)
	require.True(t, ok)
	assert.Equal(t, int64(40), *cached)
}
