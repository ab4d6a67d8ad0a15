package index

import (
	"context"
	"sort"
	"sync"

	"github.com/oscarhermoso/cubecache/errors"
)

type memoryKey struct {
	sortKey int64
	id      string
}

// Memory is an in-process Index.
type Memory struct {
	mu         sync.RWMutex
	partitions map[string]map[memoryKey]Item
}

// NewMemory creates an empty in-memory index.
func NewMemory() *Memory {
	return &Memory{partitions: make(map[string]map[memoryKey]Item)}
}

// Query implements Index.
func (m *Memory) Query(ctx context.Context, partitionKey string, cursor *Cursor, opts ...QueryOption) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, errors.Wrap(err, errors.CodeTimeout, "query cancelled")
	}
	if err := ValidateCursor(partitionKey, cursor); err != nil {
		return Page{}, err
	}
	o := ResolveQueryOptions(opts...)

	m.mu.RLock()
	items := make([]Item, 0, len(m.partitions[partitionKey]))
	for _, item := range m.partitions[partitionKey] {
		items = append(items, item)
	}
	m.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		return less(items[i], items[j], o.Ascending)
	})

	start := 0
	if cursor != nil {
		after := Item{ID: cursor.ID, PartitionKey: cursor.PartitionKey, SortKey: cursor.SortKey}
		start = sort.Search(len(items), func(i int) bool {
			return less(after, items[i], o.Ascending)
		})
	}
	items = items[start:]

	page := Page{Items: items}
	if len(items) > o.Limit {
		page.Items = items[:o.Limit]
		page.Next = CursorAt(page.Items[o.Limit-1])
	}
	return page, nil
}

// Put implements Index.
func (m *Memory) Put(ctx context.Context, item Item) error {
	return m.BatchPut(ctx, []Item{item})
}

// BatchPut implements Index. Either every item is stored or none is.
func (m *Memory) BatchPut(ctx context.Context, items []Item) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CodeTimeout, "batch put cancelled")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range items {
		partition, ok := m.partitions[item.PartitionKey]
		if !ok {
			partition = make(map[memoryKey]Item)
			m.partitions[item.PartitionKey] = partition
		}
		partition[memoryKey{sortKey: item.SortKey, id: item.ID}] = item
	}
	return nil
}

// Len returns the number of items in partitionKey.
func (m *Memory) Len(partitionKey string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.partitions[partitionKey])
}

// less orders by sort key, then id, in the requested direction.
func less(a, b Item, ascending bool) bool {
	if a.SortKey != b.SortKey {
		if ascending {
			return a.SortKey < b.SortKey
		}
		return a.SortKey > b.SortKey
	}
	if ascending {
		return a.ID < b.ID
	}
	return a.ID > b.ID
}
