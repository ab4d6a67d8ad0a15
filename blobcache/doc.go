// Package blobcache provides a bounded in-process cache that evicts by
// insertion time.
//
// A Cache maps string keys to values of a single type. Each entry records the
// time it was inserted; a read never changes that time. When a Put of a new key
// would exceed the capacity, the entry with the oldest insertion time is
// removed first. Re-putting an existing key counts as a fresh insertion.
//
// This is deliberately not an LRU: a frequently read entry is evicted as soon
// as it becomes the oldest insertion.
//
// # Ordering
//
// Entries are ordered by (InsertedAt, sequence), where sequence is a per-cache
// counter incremented on every insertion. Two entries inserted within the same
// clock tick are therefore evicted in insertion order.
//
// # Capacity
//
// A capacity of zero turns the cache into a pass-through: every Put is counted
// as an immediate eviction and Get always misses. Negative capacities are
// rejected by New.
//
// # Loading
//
// GetOrLoad reads through to a caller-supplied fetch on a miss. A fetch that
// overlaps a Put, Invalidate or Clear of the same key does not cache its
// result, so a value written while the fetch was in flight is never replaced
// by the older one it read.
//
// Put returns the version of the entry it created. InvalidateVersion removes
// the entry only while it is still that version, which lets a writer undo its
// own insertion without dropping a newer one.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Put performs the size check, the
// eviction and the insertion under one lock, so concurrent puts can neither
// overshoot the capacity nor evict twice for one slot.
package blobcache
