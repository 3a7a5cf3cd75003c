// Package cache provides the in-process profile cache injected into the
// enrichment pipeline.
package cache

import (
	"sync"
	"time"

	"github.com/praxis-pr/entity-intel/internal/models"
)

// ProfileCache is an explicit cache boundary: get, put, invalidate.
// The pipeline decides when to bypass it (deep enrichment never serves
// a cached profile).
type ProfileCache interface {
	// Get returns the cached profile for id, or nil if absent or expired.
	Get(id string) *models.EntityProfile

	// Put stores a profile under its id.
	Put(profile *models.EntityProfile)

	// Invalidate drops the entry for id if present.
	Invalidate(id string)

	// Len returns the number of live entries.
	Len() int
}

type entry struct {
	profile  *models.EntityProfile
	storedAt time.Time
}

// TTLCache is a ProfileCache whose entries expire after a fixed TTL.
// A zero TTL means entries never expire.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewTTLCache creates a TTLCache with the given entry lifetime.
func NewTTLCache(ttl time.Duration) *TTLCache {
	return &TTLCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached profile for id, or nil if absent or expired.
// Expired entries are dropped on access.
func (c *TTLCache) Get(id string) *models.EntityProfile {
	c.mu.RLock()
	e, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return nil
	}
	if c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl {
		c.Invalidate(id)
		return nil
	}
	return e.profile.Clone()
}

// Put stores a deep copy of the profile under its id.
func (c *TTLCache) Put(profile *models.EntityProfile) {
	if profile == nil || profile.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[profile.ID] = entry{profile: profile.Clone(), storedAt: c.now()}
}

// Invalidate drops the entry for id if present.
func (c *TTLCache) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// Len returns the number of entries, including not-yet-evicted expired ones.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// SetClock overrides the time source. Test helper.
func (c *TTLCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
