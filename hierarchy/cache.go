package hierarchy

import (
	"sync"
	"sync/atomic"

	"github.com/cottand/supers/internal/log"
)

var cacheLogger = log.DefaultLogger.With("section", "cache")

type cacheKey struct {
	generation uint64
	snapshot   uint64
	super      ClassID
	derived    ClassID
	scope      string

	// substitutor is the hash of the derived substitutor, see cacheEntry.derivedSub
	substitutor uint64
}

type cacheEntry struct {
	// derivedSub disambiguates hash collisions on cacheKey.substitutor
	derivedSub Substitutor
	result     Resolution
}

// Cache memoizes resolutions. It is safe for concurrent use.
//
// Two goroutines missing on the same key may both compute and store the same
// result: resolutions are pure, so this only wastes work.
// Entries are only ever published once complete.
type Cache struct {
	generation atomic.Uint64
	entries    sync.Map // cacheKey -> cacheEntry

	hits, misses atomic.Uint64
}

func NewCache() *Cache {
	return &Cache{}
}

func (c *Cache) key(snapshot *Snapshot, q Query) cacheKey {
	return cacheKey{
		generation:  c.generation.Load(),
		snapshot:    snapshot.Version(),
		super:       q.Super.ID,
		derived:     q.Derived.ID,
		scope:       q.Scope.ID(),
		substitutor: q.Substitutor.Hash(),
	}
}

// get returns the cached resolution for q, if any
func (c *Cache) get(key cacheKey, q Query) (Resolution, bool) {
	v, ok := c.entries.Load(key)
	if ok {
		entry := v.(cacheEntry)
		if entry.derivedSub.Equal(q.Substitutor) {
			c.hits.Add(1)
			return entry.result, true
		}
	}
	c.misses.Add(1)
	return Resolution{}, false
}

// put stores r unless the cache was invalidated since key was made
func (c *Cache) put(key cacheKey, q Query, r Resolution) {
	if key.generation != c.generation.Load() {
		return
	}
	c.entries.Store(key, cacheEntry{derivedSub: q.Substitutor, result: r})
}

// InvalidateAll drops every entry. Results being computed concurrently are
// dropped when they complete.
func (c *Cache) InvalidateAll() {
	generation := c.generation.Add(1)
	c.entries.Clear()
	cacheLogger.Debug("invalidated", "generation", generation)
}

// Len counts the entries currently stored
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Stats returns how many lookups hit and missed since the cache was created
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
