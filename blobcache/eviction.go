package blobcache

import (
	"container/heap"
	"time"
)

// item is the cache's record for one key. index is its position in the
// insertion heap and is maintained by insertionHeap.
type item[V any] struct {
	key        string
	value      V
	insertedAt time.Time
	seq        uint64
	index      int
}

// older reports whether a was inserted before b.
func older[V any](a, b *item[V]) bool {
	if a.insertedAt.Equal(b.insertedAt) {
		return a.seq < b.seq
	}
	return a.insertedAt.Before(b.insertedAt)
}

// insertionHeap is a min-heap of items keyed by (insertedAt, seq).
type insertionHeap[V any] []*item[V]

func (h insertionHeap[V]) Len() int { return len(h) }

func (h insertionHeap[V]) Less(i, j int) bool { return older(h[i], h[j]) }

func (h insertionHeap[V]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *insertionHeap[V]) Push(x any) {
	it := x.(*item[V])
	it.index = len(*h)
	*h = append(*h, it)
}

func (h *insertionHeap[V]) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*h = old[:n-1]
	return it
}

// oldest returns the item that eviction would remove, or nil.
func (h insertionHeap[V]) oldest() *item[V] {
	if len(h) == 0 {
		return nil
	}
	return h[0]
}

// refresh restores heap order after its timestamp changed.
func (h *insertionHeap[V]) refresh(it *item[V]) {
	heap.Fix(h, it.index)
}

func (h *insertionHeap[V]) remove(it *item[V]) {
	heap.Remove(h, it.index)
}

func (h *insertionHeap[V]) add(it *item[V]) {
	heap.Push(h, it)
}

func (h *insertionHeap[V]) popOldest() *item[V] {
	return heap.Pop(h).(*item[V])
}
