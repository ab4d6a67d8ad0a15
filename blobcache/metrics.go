package blobcache

import (
	"sync"
	"time"
)

// Metrics tracks cache activity. It is safe for concurrent use.
type Metrics struct {
	mu sync.RWMutex

	hits          int64
	misses        int64
	puts          int64
	evictions     int64
	invalidations int64

	entries     int64
	peakEntries int64

	startTime        time.Time
	lastEvictionTime time.Time
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Hits          int64
	Misses        int64
	HitRate       float64
	Puts          int64
	Evictions     int64
	Invalidations int64

	Entries     int64
	PeakEntries int64

	Uptime           time.Duration
	LastEvictionTime time.Time
}

// NewMetrics creates an empty Metrics starting now.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordHit records a cache hit.
func (m *Metrics) RecordHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits++
}

// RecordMiss records a cache miss.
func (m *Metrics) RecordMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.misses++
}

// RecordPut records a put and the resulting number of entries.
func (m *Metrics) RecordPut(entries int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.puts++
	m.entries = int64(entries)
	if m.entries > m.peakEntries {
		m.peakEntries = m.entries
	}
}

// RecordEviction records a capacity eviction.
func (m *Metrics) RecordEviction() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictions++
	m.lastEvictionTime = time.Now()
}

// RecordInvalidation records an explicit removal and the remaining entries.
func (m *Metrics) RecordInvalidation(entries int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.invalidations++
	m.entries = int64(entries)
}

// RecordClear records that the cache was emptied.
func (m *Metrics) RecordClear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = 0
}

// Snapshot returns a copy of the current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var hitRate float64
	if total := m.hits + m.misses; total > 0 {
		hitRate = float64(m.hits) / float64(total)
	}

	return MetricsSnapshot{
		Hits:             m.hits,
		Misses:           m.misses,
		HitRate:          hitRate,
		Puts:             m.puts,
		Evictions:        m.evictions,
		Invalidations:    m.invalidations,
		Entries:          m.entries,
		PeakEntries:      m.peakEntries,
		Uptime:           time.Since(m.startTime),
		LastEvictionTime: m.lastEvictionTime,
	}
}
