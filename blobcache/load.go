package blobcache

// load tracks the in-flight loads of one key. generation moves whenever the
// key is written, invalidated or cleared, so a load that started earlier can
// tell its result is stale.
type load struct {
	generation uint64
	waiters    int
}

// reservation is one caller's claim on a key load.
type reservation struct {
	key        string
	load       *load
	generation uint64
}

// GetOrLoad returns the cached value of key, or calls fetch and caches its
// result.
//
// The fetched value is only cached if key was not put, invalidated or cleared
// while fetch ran; otherwise the newer state wins and the fetched value is
// only returned to this caller. Errors from fetch are returned and nothing is
// cached. Concurrent misses on the same key each call fetch.
func (c *Cache[V]) GetOrLoad(key string, fetch func() (V, error)) (V, error) {
	r := c.reserve(key)

	if value, ok := c.Get(key); ok {
		c.release(r)
		return value, nil
	}

	value, err := fetch()
	if err != nil {
		c.release(r)
		var zero V
		return zero, err
	}

	c.fill(r, value)
	return value, nil
}

func (c *Cache[V]) reserve(key string) reservation {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.loads[key]
	if !ok {
		l = &load{}
		c.loads[key] = l
	}
	l.waiters++
	return reservation{key: key, load: l, generation: l.generation}
}

// fill caches value if r is still current and releases r.
// It reports whether value was cached.
func (c *Cache[V]) fill(r reservation, value V) bool {
	c.mu.Lock()
	current := r.load.generation == r.generation
	var (
		evicted string
		size    int
	)
	if current {
		_, evicted, size = c.putLocked(r.key, value)
	}
	c.releaseLocked(r)
	c.mu.Unlock()

	if current {
		c.recordPut(r.key, evicted, size)
	}
	return current
}

func (c *Cache[V]) release(r reservation) {
	c.mu.Lock()
	c.releaseLocked(r)
	c.mu.Unlock()
}

func (c *Cache[V]) releaseLocked(r reservation) {
	r.load.waiters--
	if r.load.waiters == 0 && c.loads[r.key] == r.load {
		delete(c.loads, r.key)
	}
}

// voidLoads marks in-flight loads of key as stale. Callers hold c.mu.
func (c *Cache[V]) voidLoads(key string) {
	if l, ok := c.loads[key]; ok {
		l.generation++
	}
}
