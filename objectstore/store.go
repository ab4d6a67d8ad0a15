// Package objectstore defines the remote key/blob store that sits behind the
// cache, together with an in-memory implementation.
//
// Bodies are opaque bytes; callers in this module store JSON text. Every
// implementation must report a missing object with an error carrying
// errors.CodeNotFound so the read path can tell "absent" from "unavailable".
package objectstore

import (
	"context"
)

// Store is a key to blob store partitioned into buckets.
// Implementations must be safe for concurrent use.
type Store interface {
	// GetObject returns the body stored under key.
	// Returns an error with errors.CodeNotFound if the object does not exist.
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)

	// PutObject stores body under key, replacing any existing object.
	PutObject(ctx context.Context, bucket, key string, body []byte) error

	// DeleteObject removes the object under key.
	// Deleting a missing object succeeds.
	DeleteObject(ctx context.Context, bucket, key string) error
}
