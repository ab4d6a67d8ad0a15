// Package index defines the partitioned, sorted index that lists documents
// by owner, newest first.
//
// An index stores only small items: the document id, the partition it belongs
// to and an integer sort key (typically a unix millisecond timestamp). The
// document bodies themselves live in an object store.
package index

import (
	"context"
	"strings"

	"github.com/oscarhermoso/cubecache/errors"
)

// DefaultLimit is the page size used when a query does not set one.
const DefaultLimit = 100

// Item is one index record.
type Item struct {
	ID           string
	PartitionKey string
	SortKey      int64
}

// Cursor marks the last item returned by a query. Passing it back resumes
// the query after that item.
type Cursor struct {
	PartitionKey string
	SortKey      int64
	ID           string
}

// Page is one page of query results.
type Page struct {
	Items []Item

	// Next is nil when there are no more items.
	Next *Cursor
}

// Index is a partitioned index ordered by sort key.
type Index interface {
	// Query returns items of partitionKey, newest first unless WithAscending
	// is given. A nil cursor starts from the beginning.
	Query(ctx context.Context, partitionKey string, cursor *Cursor, opts ...QueryOption) (Page, error)

	// Put inserts or replaces item.
	Put(ctx context.Context, item Item) error

	// BatchPut inserts or replaces every item. Implementations apply the
	// batch atomically where the backend allows it.
	BatchPut(ctx context.Context, items []Item) error
}

// QueryOptions holds the resolved query settings.
type QueryOptions struct {
	Limit     int
	Ascending bool
}

// QueryOption configures a Query call.
type QueryOption func(*QueryOptions)

// WithLimit sets the maximum number of items per page.
// Non-positive values fall back to DefaultLimit.
func WithLimit(limit int) QueryOption {
	return func(o *QueryOptions) {
		o.Limit = limit
	}
}

// WithAscending returns the oldest items first.
func WithAscending() QueryOption {
	return func(o *QueryOptions) {
		o.Ascending = true
	}
}

// ResolveQueryOptions applies opts over the defaults.
func ResolveQueryOptions(opts ...QueryOption) QueryOptions {
	o := QueryOptions{Limit: DefaultLimit}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	return o
}

// Validate checks that an item can be indexed.
func (i Item) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return errors.New(errors.CodeInvalidInput, "index item id is required")
	}
	if strings.TrimSpace(i.PartitionKey) == "" {
		return errors.WithContext(
			errors.New(errors.CodeInvalidInput, "index item partition key is required"),
			"id", i.ID)
	}
	return nil
}

// CursorAt returns the cursor pointing at item.
func CursorAt(item Item) *Cursor {
	return &Cursor{PartitionKey: item.PartitionKey, SortKey: item.SortKey, ID: item.ID}
}

// ValidateCursor checks that cursor belongs to partitionKey.
func ValidateCursor(partitionKey string, cursor *Cursor) error {
	if cursor == nil {
		return nil
	}
	if cursor.PartitionKey != partitionKey {
		return errors.WithContext(
			errors.Newf(errors.CodeInvalidInput, "cursor belongs to partition %q", cursor.PartitionKey),
			"partition", partitionKey)
	}
	return nil
}
