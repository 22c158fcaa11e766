package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// cachedEntity is one resolver answer with the time it was fetched.
type cachedEntity struct {
	entity Entity
	built  time.Time
}

// CachedResolver remembers successful resolutions for a TTL and collapses
// concurrent lookups of the same identifier into one upstream call.
// Failures are never cached.
type CachedResolver struct {
	next Resolver
	ttl  time.Duration

	mu      sync.RWMutex
	entries map[string]cachedEntity
	sf      singleflight.Group
	now     func() time.Time
}

// NewCachedResolver wraps next. A zero ttl disables caching but keeps stampede protection.
func NewCachedResolver(next Resolver, ttl time.Duration) *CachedResolver {
	return &CachedResolver{
		next:    next,
		ttl:     ttl,
		entries: make(map[string]cachedEntity),
		now:     time.Now,
	}
}

// Resolve returns a cached entity when fresh, otherwise asks the wrapped resolver.
func (c *CachedResolver) Resolve(ctx context.Context, identifier string) (Entity, error) {
	// Fast path
	if e, ok := c.lookup(identifier); ok {
		return e, nil
	}

	result, err, _ := c.sf.Do(identifier, func() (interface{}, error) {
		// Double-check after acquiring the flight
		if e, ok := c.lookup(identifier); ok {
			return e, nil
		}

		e, err := c.next.Resolve(ctx, identifier)
		if err != nil {
			return nil, err
		}

		if c.ttl > 0 {
			c.mu.Lock()
			c.entries[identifier] = cachedEntity{entity: e, built: c.now()}
			c.mu.Unlock()
		}
		return e, nil
	})
	if err != nil {
		return Entity{}, err
	}

	return result.(Entity), nil
}

func (c *CachedResolver) lookup(identifier string) (Entity, bool) {
	if c.ttl == 0 {
		return Entity{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[identifier]
	c.mu.RUnlock()
	if !ok || c.now().Sub(entry.built) > c.ttl {
		return Entity{}, false
	}
	return entry.entity, true
}
