package index_test

import (
	"context"
	"testing"

	"github.com/oscarhermoso/cubecache/errors"
	"github.com/oscarhermoso/cubecache/index"
	"github.com/oscarhermoso/cubecache/index/indextest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryConformance(t *testing.T) {
	indextest.TestSuite(t, func(t *testing.T) index.Index {
		return index.NewMemory()
	})
}

func TestMemory_Len(t *testing.T) {
	idx := index.NewMemory()
	ctx := context.Background()

	require.NoError(t, idx.Put(ctx, index.Item{ID: "a", PartitionKey: "cube-1", SortKey: 1}))
	require.NoError(t, idx.Put(ctx, index.Item{ID: "b", PartitionKey: "cube-1", SortKey: 2}))
	require.NoError(t, idx.Put(ctx, index.Item{ID: "a", PartitionKey: "cube-2", SortKey: 1}))

	assert.Equal(t, 2, idx.Len("cube-1"))
	assert.Equal(t, 1, idx.Len("cube-2"))
	assert.Equal(t, 0, idx.Len("cube-3"))
}

func TestMemory_CancelledContext(t *testing.T) {
	idx := index.NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := idx.Query(ctx, "cube-1", nil)
	assert.Equal(t, errors.CodeTimeout, errors.GetCode(err))

	err = idx.Put(ctx, index.Item{ID: "a", PartitionKey: "cube-1"})
	assert.Equal(t, errors.CodeTimeout, errors.GetCode(err))
}

func TestResolveQueryOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []index.QueryOption
		want index.QueryOptions
	}{
		{"defaults", nil, index.QueryOptions{Limit: index.DefaultLimit}},
		{"limit", []index.QueryOption{index.WithLimit(5)}, index.QueryOptions{Limit: 5}},
		{"non-positive limit", []index.QueryOption{index.WithLimit(0)}, index.QueryOptions{Limit: index.DefaultLimit}},
		{"ascending", []index.QueryOption{index.WithAscending()}, index.QueryOptions{Limit: index.DefaultLimit, Ascending: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, index.ResolveQueryOptions(tt.opts...))
		})
	}
}

func TestItem_Validate(t *testing.T) {
	assert.NoError(t, index.Item{ID: "a", PartitionKey: "p"}.Validate())
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(index.Item{PartitionKey: "p"}.Validate()))
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(index.Item{ID: "a", PartitionKey: "  "}.Validate()))
}
