package aicheck

import (
	"sync"

	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

// Cache keeps check results for one reviewer session, keyed by application id.
// Results are never persisted.
type Cache struct {
	mu      sync.RWMutex
	results map[string]*entity.AICheckResult
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{results: make(map[string]*entity.AICheckResult)}
}

// Get returns the cached result for applicationID.
func (c *Cache) Get(applicationID string) (*entity.AICheckResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.results[applicationID]
	return r, ok
}

// Put stores result, replacing any earlier one.
func (c *Cache) Put(applicationID string, result *entity.AICheckResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[applicationID] = result
}

// Has reports whether applicationID has a cached result.
func (c *Cache) Has(applicationID string) bool {
	_, ok := c.Get(applicationID)
	return ok
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}

// Registry holds one Cache per session.
type Registry struct {
	mu     sync.Mutex
	caches map[string]*Cache
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{caches: make(map[string]*Cache)}
}

// For returns the cache of sessionID, creating it on first use.
func (r *Registry) For(sessionID string) *Cache {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.caches[sessionID]
	if !ok {
		c = NewCache()
		r.caches[sessionID] = c
	}
	return c
}

// Drop discards the cache of sessionID, on logout.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.caches, sessionID)
}
