// Package indextest provides a conformance suite for index.Index
// implementations.
package indextest

import (
	"context"
	"fmt"
	"testing"

	"github.com/oscarhermoso/cubecache/errors"
	"github.com/oscarhermoso/cubecache/index"
)

// TestSuite runs every conformance test, each against a fresh index.
func TestSuite(t *testing.T, newIndex func(t *testing.T) index.Index) {
	tests := []struct {
		name string
		fn   func(t *testing.T, idx index.Index)
	}{
		{"EmptyPartition", testEmptyPartition},
		{"DescendingByDefault", testDescendingByDefault},
		{"Ascending", testAscending},
		{"Pagination", testPagination},
		{"ExactPageHasNoNext", testExactPageHasNoNext},
		{"PartitionIsolation", testPartitionIsolation},
		{"PutIsUpsert", testPutIsUpsert},
		{"EqualSortKeys", testEqualSortKeys},
		{"BatchPutRejectsInvalidItem", testBatchPutRejectsInvalidItem},
		{"ForeignCursor", testForeignCursor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newIndex(t))
		})
	}
}

func ids(items []index.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func seed(t *testing.T, idx index.Index, partition string, n int) {
	t.Helper()
	items := make([]index.Item, n)
	for i := range items {
		items[i] = index.Item{
			ID:           fmt.Sprintf("doc-%02d", i),
			PartitionKey: partition,
			SortKey:      int64(1000 + i),
		}
	}
	if err := idx.BatchPut(context.Background(), items); err != nil {
		t.Fatalf("BatchPut(%d items): got error %v", n, err)
	}
}

func testEmptyPartition(t *testing.T, idx index.Index) {
	page, err := idx.Query(context.Background(), "cube-none", nil)
	if err != nil {
		t.Fatalf("Query(cube-none): got error %v", err)
	}
	if len(page.Items) != 0 || page.Next != nil {
		t.Errorf("Query(cube-none): got %d items, next %v; want empty page", len(page.Items), page.Next)
	}
}

func testDescendingByDefault(t *testing.T, idx index.Index) {
	seed(t, idx, "cube-1", 3)

	page, err := idx.Query(context.Background(), "cube-1", nil)
	if err != nil {
		t.Fatalf("Query(cube-1): got error %v", err)
	}
	if want := []string{"doc-02", "doc-01", "doc-00"}; !equal(ids(page.Items), want) {
		t.Errorf("Query(cube-1): got %v, want %v", ids(page.Items), want)
	}
	if page.Next != nil {
		t.Errorf("Query(cube-1): got next %+v, want nil", page.Next)
	}
}

func testAscending(t *testing.T, idx index.Index) {
	seed(t, idx, "cube-1", 3)

	page, err := idx.Query(context.Background(), "cube-1", nil, index.WithAscending())
	if err != nil {
		t.Fatalf("Query(cube-1, ascending): got error %v", err)
	}
	if want := []string{"doc-00", "doc-01", "doc-02"}; !equal(ids(page.Items), want) {
		t.Errorf("Query(cube-1, ascending): got %v, want %v", ids(page.Items), want)
	}
}

func testPagination(t *testing.T, idx index.Index) {
	seed(t, idx, "cube-1", 7)
	ctx := context.Background()

	var got []string
	var cursor *index.Cursor
	pages := 0
	for {
		page, err := idx.Query(ctx, "cube-1", cursor, index.WithLimit(3))
		if err != nil {
			t.Fatalf("Query page %d: got error %v", pages, err)
		}
		pages++
		got = append(got, ids(page.Items)...)
		if page.Next == nil {
			break
		}
		if pages > 10 {
			t.Fatalf("pagination did not terminate")
		}
		cursor = page.Next
	}

	want := []string{"doc-06", "doc-05", "doc-04", "doc-03", "doc-02", "doc-01", "doc-00"}
	if !equal(got, want) {
		t.Errorf("paged ids: got %v, want %v", got, want)
	}
	if pages != 3 {
		t.Errorf("page count: got %d, want 3", pages)
	}
}

func testExactPageHasNoNext(t *testing.T, idx index.Index) {
	seed(t, idx, "cube-1", 3)

	page, err := idx.Query(context.Background(), "cube-1", nil, index.WithLimit(3))
	if err != nil {
		t.Fatalf("Query(cube-1): got error %v", err)
	}
	if len(page.Items) != 3 {
		t.Errorf("Query(cube-1): got %d items, want 3", len(page.Items))
	}
	if page.Next != nil {
		t.Errorf("Query(cube-1): got next %+v, want nil", page.Next)
	}
}

func testPartitionIsolation(t *testing.T, idx index.Index) {
	seed(t, idx, "cube-1", 2)
	seed(t, idx, "cube-2", 4)

	page, err := idx.Query(context.Background(), "cube-1", nil)
	if err != nil {
		t.Fatalf("Query(cube-1): got error %v", err)
	}
	if len(page.Items) != 2 {
		t.Errorf("Query(cube-1): got %d items, want 2", len(page.Items))
	}
	for _, item := range page.Items {
		if item.PartitionKey != "cube-1" {
			t.Errorf("Query(cube-1): got item from partition %q", item.PartitionKey)
		}
	}
}

func testPutIsUpsert(t *testing.T, idx index.Index) {
	ctx := context.Background()
	item := index.Item{ID: "doc", PartitionKey: "cube-1", SortKey: 5}

	for i := 0; i < 2; i++ {
		if err := idx.Put(ctx, item); err != nil {
			t.Fatalf("Put(doc) #%d: got error %v", i+1, err)
		}
	}

	page, err := idx.Query(ctx, "cube-1", nil)
	if err != nil {
		t.Fatalf("Query(cube-1): got error %v", err)
	}
	if len(page.Items) != 1 || page.Items[0] != item {
		t.Errorf("Query(cube-1): got %+v, want [%+v]", page.Items, item)
	}
}

func testEqualSortKeys(t *testing.T, idx index.Index) {
	ctx := context.Background()
	items := []index.Item{
		{ID: "a", PartitionKey: "cube-1", SortKey: 42},
		{ID: "b", PartitionKey: "cube-1", SortKey: 42},
		{ID: "c", PartitionKey: "cube-1", SortKey: 42},
	}
	if err := idx.BatchPut(ctx, items); err != nil {
		t.Fatalf("BatchPut: got error %v", err)
	}

	first, err := idx.Query(ctx, "cube-1", nil, index.WithLimit(2))
	if err != nil {
		t.Fatalf("Query page 1: got error %v", err)
	}
	if first.Next == nil {
		t.Fatalf("Query page 1: got nil next, want a cursor")
	}
	second, err := idx.Query(ctx, "cube-1", first.Next, index.WithLimit(2))
	if err != nil {
		t.Fatalf("Query page 2: got error %v", err)
	}

	got := append(ids(first.Items), ids(second.Items)...)
	if want := []string{"c", "b", "a"}; !equal(got, want) {
		t.Errorf("ids across pages: got %v, want %v", got, want)
	}
}

func testBatchPutRejectsInvalidItem(t *testing.T, idx index.Index) {
	ctx := context.Background()
	items := []index.Item{
		{ID: "ok", PartitionKey: "cube-1", SortKey: 1},
		{ID: "", PartitionKey: "cube-1", SortKey: 2},
	}

	err := idx.BatchPut(ctx, items)
	if errors.GetCode(err) != errors.CodeInvalidInput {
		t.Fatalf("BatchPut with empty id: got %v, want %s", err, errors.CodeInvalidInput)
	}

	page, err := idx.Query(ctx, "cube-1", nil)
	if err != nil {
		t.Fatalf("Query(cube-1): got error %v", err)
	}
	if len(page.Items) != 0 {
		t.Errorf("Query(cube-1): got %v, want no items from a rejected batch", ids(page.Items))
	}
}

func testForeignCursor(t *testing.T, idx index.Index) {
	seed(t, idx, "cube-1", 2)
	cursor := &index.Cursor{PartitionKey: "cube-2", SortKey: 1000, ID: "doc-00"}

	_, err := idx.Query(context.Background(), "cube-1", cursor)
	if errors.GetCode(err) != errors.CodeInvalidInput {
		t.Errorf("Query with foreign cursor: got %v, want %s", err, errors.CodeInvalidInput)
	}
}
