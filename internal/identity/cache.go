// Package identity resolves teams to franchise identities through an injected cache.
package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/yourusername/totals-engine/internal/metrics"
	"github.com/yourusername/totals-engine/internal/models"
)

// lookupTimeout bounds a shared franchise lookup once it is detached from the
// caller that started it.
const lookupTimeout = 10 * time.Second

// noFranchise marks a cached lookup that found a team without a franchise.
const noFranchise int64 = 0

// FranchiseLookup reads a team's franchise id. A nil id means the team has none.
type FranchiseLookup interface {
	GetFranchiseID(ctx context.Context, teamID int64) (*int64, error)
}

// Cache memoizes team to franchise lookups. Each Cache is independent, so
// concurrent computations only share state when the caller hands them the same one.
type Cache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewCache creates a new identity cache
func NewCache(ttl time.Duration, maxSize int) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

func cacheKey(sportID string, teamID int64) string {
	return fmt.Sprintf("%s:%d", sportID, teamID)
}

// Get returns the cached franchise id and whether the team was cached at all.
func (c *Cache) Get(sportID string, teamID int64) (*int64, bool) {
	value, found := c.cache.Get(cacheKey(sportID, teamID))

	c.mu.Lock()
	if found {
		c.hitCount++
	} else {
		c.missCount++
	}
	c.mu.Unlock()
	c.updateMetrics()

	if !found {
		return nil, false
	}
	id, ok := value.(int64)
	if !ok || id == noFranchise {
		return nil, true
	}
	return &id, true
}

// Set stores a lookup result. A nil franchise id is cached as well.
func (c *Cache) Set(sportID string, teamID int64, franchiseID *int64) {
	if c.maxSize > 0 && c.cache.ItemCount() >= c.maxSize {
		c.cache.DeleteExpired()
		if c.cache.ItemCount() >= c.maxSize {
			return
		}
	}

	value := noFranchise
	if franchiseID != nil {
		value = *franchiseID
	}
	c.cache.Set(cacheKey(sportID, teamID), value, c.ttl)
}

// Clear flushes the entire cache
func (c *Cache) Clear() {
	c.cache.Flush()

	c.mu.Lock()
	c.hitCount = 0
	c.missCount = 0
	c.mu.Unlock()
}

// Stats returns cache statistics
func (c *Cache) Stats() (hits, misses uint64, ratio float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hits = c.hitCount
	misses = c.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (c *Cache) ItemCount() int {
	return c.cache.ItemCount()
}

func (c *Cache) updateMetrics() {
	_, _, ratio := c.Stats()
	metrics.UpdateIdentityCacheHitRatio(ratio)
}

// Resolver fills in franchise ids for team references.
type Resolver struct {
	lookup FranchiseLookup
	cache  *Cache
	group  singleflight.Group
}

// NewResolver creates a resolver. The cache is required so callers decide its scope.
func NewResolver(lookup FranchiseLookup, c *Cache) *Resolver {
	return &Resolver{lookup: lookup, cache: c}
}

// Resolve returns a TeamRef with FranchiseID populated from cache or lookup.
func (r *Resolver) Resolve(ctx context.Context, sportID string, teamID int64) (models.TeamRef, error) {
	ref := models.TeamRef{TeamID: teamID}

	if id, ok := r.cache.Get(sportID, teamID); ok {
		ref.FranchiseID = id
		return ref, nil
	}

	// concurrent batch workers share one lookup per team, so it must not die
	// with the first caller's context
	v, err, _ := r.group.Do(cacheKey(sportID, teamID), func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()

		id, err := r.lookup.GetFranchiseID(lctx, teamID)
		if err != nil {
			return nil, err
		}
		r.cache.Set(sportID, teamID, id)
		return id, nil
	})
	if err != nil {
		return ref, models.NewCollaboratorError(fmt.Sprintf("lookup franchise for team %d", teamID), err)
	}
	ref.FranchiseID = v.(*int64)
	return ref, nil
}

// ResolvePair resolves whichever side is missing a franchise id. A FranchiseID
// already set by the caller is kept as is.
func (r *Resolver) ResolvePair(ctx context.Context, sportID string, a, b models.TeamRef) (models.TeamRef, models.TeamRef, error) {
	var err error
	if a.FranchiseID == nil {
		if a, err = r.Resolve(ctx, sportID, a.TeamID); err != nil {
			return a, b, err
		}
	}
	if b.FranchiseID == nil {
		if b, err = r.Resolve(ctx, sportID, b.TeamID); err != nil {
			return a, b, err
		}
	}
	return a, b, nil
}
