package blobcache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oscarhermoso/cubecache/errors"
	"github.com/oscarhermoso/cubecache/internal/logging"
)

// DefaultCapacity is the entry limit used by the web application.
const DefaultCapacity = 10000

// Entry is a copy of one cached key, value and insertion time.
type Entry[V any] struct {
	Key        string
	Value      V
	InsertedAt time.Time
}

// Cache is a bounded key-value cache that evicts the oldest insertion.
type Cache[V any] struct {
	mu       sync.RWMutex
	capacity int
	items    map[string]*item[V]
	order    insertionHeap[V]
	seq      uint64
	loads    map[string]*load

	clock   func() time.Time
	name    string
	logger  *logging.Logger
	metrics *Metrics
}

// New creates a cache holding at most capacity entries.
// Returns an error if capacity is negative.
//
// Example:
//
//	cache, err := blobcache.New[any](blobcache.DefaultCapacity)
func New[V any](capacity int, opts ...Option) (*Cache[V], error) {
	if capacity < 0 {
		return nil, errors.Newf(errors.CodeInvalidConfig, "cache capacity must not be negative: %d", capacity)
	}

	o := &options{
		clock:  time.Now,
		logger: logging.NewNopLogger(),
		name:   "blob",
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Cache[V]{
		capacity: capacity,
		items:    make(map[string]*item[V]),
		order:    make(insertionHeap[V], 0),
		loads:    make(map[string]*load),
		clock:    o.clock,
		name:     o.name,
		logger:   o.logger.WithComponent("blobcache").With("cache", o.name),
		metrics:  NewMetrics(),
	}, nil
}

// Get returns the value cached under key.
// It does not change the entry's position in the eviction order.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	var value V
	if ok {
		value = it.value
	}
	c.mu.RUnlock()

	if !ok {
		c.metrics.RecordMiss()
		logging.LogCacheMiss(context.Background(), c.logger, c.name, key)
		return value, false
	}

	c.metrics.RecordHit()
	logging.LogCacheHit(context.Background(), c.logger, c.name, key)
	return value, true
}

// Peek returns a copy of the entry under key without recording a hit or miss.
func (c *Cache[V]) Peek(key string) (Entry[V], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[key]
	if !ok {
		return Entry[V]{}, false
	}
	return Entry[V]{Key: it.key, Value: it.value, InsertedAt: it.insertedAt}, true
}

// Put stores value under key with a fresh insertion time and returns the
// entry's version, which InvalidateVersion accepts. The version is 0 when the
// cache has zero capacity.
//
// If key is new and the cache is full, the entry with the oldest insertion
// time is evicted first. Overwriting an existing key never evicts.
func (c *Cache[V]) Put(key string, value V) uint64 {
	c.mu.Lock()
	c.voidLoads(key)
	version, evicted, size := c.putLocked(key, value)
	c.mu.Unlock()

	c.recordPut(key, evicted, size)
	return version
}

// putLocked inserts under c.mu and returns what recordPut needs.
func (c *Cache[V]) putLocked(key string, value V) (uint64, string, int) {
	if c.capacity == 0 {
		return 0, key, -1
	}

	c.seq++
	now := c.clock()

	if it, ok := c.items[key]; ok {
		it.value = value
		it.insertedAt = now
		it.seq = c.seq
		c.order.refresh(it)
		return c.seq, "", len(c.items)
	}

	evicted := ""
	if len(c.items) >= c.capacity {
		oldest := c.order.popOldest()
		delete(c.items, oldest.key)
		evicted = oldest.key
	}

	it := &item[V]{key: key, value: value, insertedAt: now, seq: c.seq}
	c.items[key] = it
	c.order.add(it)
	return c.seq, evicted, len(c.items)
}

// recordPut updates metrics and logs outside the lock. A negative size marks
// a put dropped by a zero-capacity cache.
func (c *Cache[V]) recordPut(key, evicted string, size int) {
	if size < 0 {
		c.metrics.RecordEviction()
		logging.LogEviction(context.Background(), c.logger, c.name, key, 0)
		return
	}
	if evicted != "" {
		c.metrics.RecordEviction()
		logging.LogEviction(context.Background(), c.logger, c.name, evicted, size)
	}
	c.metrics.RecordPut(size)
}

// Invalidate removes key from the cache. Missing keys are ignored.
// Loads of key that are in flight will not be cached.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	c.voidLoads(key)
	removed, size := c.removeLocked(key, 0)
	c.mu.Unlock()

	if removed {
		c.recordInvalidation(key, size)
	}
}

// InvalidateVersion removes key only if its entry is still the one the Put
// returning version created. It reports whether an entry was removed.
func (c *Cache[V]) InvalidateVersion(key string, version uint64) bool {
	if version == 0 {
		return false
	}

	c.mu.Lock()
	removed, size := c.removeLocked(key, version)
	if removed {
		c.voidLoads(key)
	}
	c.mu.Unlock()

	if removed {
		c.recordInvalidation(key, size)
	}
	return removed
}

// removeLocked deletes key, or only its entry with the given version when
// version is non-zero.
func (c *Cache[V]) removeLocked(key string, version uint64) (bool, int) {
	it, ok := c.items[key]
	if !ok || (version != 0 && it.seq != version) {
		return false, len(c.items)
	}
	c.order.remove(it)
	delete(c.items, key)
	return true, len(c.items)
}

func (c *Cache[V]) recordInvalidation(key string, size int) {
	c.metrics.RecordInvalidation(size)
	c.logger.Debug(context.Background(), "cache entry invalidated",
		"operation", string(logging.OpInvalidate),
		"key", key)
}

// Clear removes every entry. Loads in flight will not be cached.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	c.items = make(map[string]*item[V])
	c.order = make(insertionHeap[V], 0)
	for _, l := range c.loads {
		l.generation++
	}
	c.mu.Unlock()

	c.metrics.RecordClear()
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Capacity returns the maximum number of entries.
func (c *Cache[V]) Capacity() int {
	return c.capacity
}

// Keys returns the cached keys in eviction order, oldest insertion first.
func (c *Cache[V]) Keys() []string {
	c.mu.RLock()
	items := make([]*item[V], len(c.order))
	for i, it := range c.order {
		items[i] = &item[V]{key: it.key, insertedAt: it.insertedAt, seq: it.seq}
	}
	c.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		return older(items[i], items[j])
	})

	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.key
	}
	return keys
}

// Metrics returns a snapshot of the cache's activity counters.
func (c *Cache[V]) Metrics() MetricsSnapshot {
	return c.metrics.Snapshot()
}
