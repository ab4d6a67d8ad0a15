package objclient

import (
	"context"

	"github.com/oscarhermoso/cubecache/blobcache"
	"github.com/oscarhermoso/cubecache/errors"
	"github.com/oscarhermoso/cubecache/internal/jsonbody"
	"github.com/oscarhermoso/cubecache/internal/logging"
	"github.com/oscarhermoso/cubecache/objectstore"
)

// Client reads and writes JSON objects through a bounded cache.
// V is the decoded value type; use any for schemaless documents.
type Client[V any] struct {
	store              objectstore.Store
	cache              *blobcache.Cache[V]
	logger             *logging.Logger
	invalidateOnDelete bool
}

// New creates a client over store using cache for decoded values.
//
// Example:
//
//	cache, _ := blobcache.New[any](cfg.Cache.MaxSize)
//	client := objclient.New(store, cache, objclient.WithLogger(logger))
func New[V any](store objectstore.Store, cache *blobcache.Cache[V], opts ...Option) *Client[V] {
	o := &options{logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(o)
	}

	return &Client[V]{
		store:              store,
		cache:              cache,
		logger:             o.logger.WithComponent("objclient"),
		invalidateOnDelete: o.invalidateOnDelete,
	}
}

// Get returns the value stored under key, reading through the cache.
// The boolean is false when the object is missing or could not be fetched
// or decoded; the cause has already been logged.
//
// A value fetched while a Put or Invalidate of key ran is returned but not
// cached, so it cannot replace the newer value.
func (c *Client[V]) Get(ctx context.Context, bucket, key string) (V, bool) {
	value, err := c.cache.GetOrLoad(key, func() (V, error) {
		return c.fetch(ctx, bucket, key)
	})
	if err != nil {
		var zero V
		return zero, false
	}
	return value, true
}

func (c *Client[V]) fetch(ctx context.Context, bucket, key string) (V, error) {
	body, err := c.store.GetObject(ctx, bucket, key)
	if err != nil {
		logging.LogStoreError(ctx, c.logger, logging.OpGetObject, bucket, key, err)
		var zero V
		return zero, err
	}

	value, err := jsonbody.Decode[V](body)
	if err != nil {
		c.logger.Error(ctx, "failed to decode object",
			"operation", string(logging.OpGetObject),
			"bucket", bucket,
			"key", key,
			"size", len(body),
			"error", err.Error())
		return value, err
	}
	return value, nil
}

// Put caches value under key and writes it to the store.
//
// The cached entry is replaced before the remote write starts, so readers in
// this process see value even while the write is in flight. If the write
// fails the entry is dropped again, unless another Put has replaced it since,
// and the error is returned. A value that cannot be encoded is rejected before
// the cache is touched.
func (c *Client[V]) Put(ctx context.Context, bucket, key string, value V) error {
	body, err := jsonbody.Encode(value)
	if err != nil {
		return errors.WithContext(err, "key", key)
	}

	c.cache.Invalidate(key)
	version := c.cache.Put(key, value)

	if err := c.store.PutObject(ctx, bucket, key, body); err != nil {
		c.cache.InvalidateVersion(key, version)
		c.logger.Warn(ctx, "failed to write object",
			"operation", string(logging.OpPutObject),
			"bucket", bucket,
			"key", key,
			"error", err.Error())
		return errors.WithContext(
			errors.Wrapf(err, errors.CodeStoreWriteFailed, "failed to put object %s", key),
			"bucket", bucket)
	}

	return nil
}

// Delete removes the object under key from the store.
// The cache is only touched when WithInvalidateOnDelete is enabled.
func (c *Client[V]) Delete(ctx context.Context, bucket, key string) error {
	if err := c.store.DeleteObject(ctx, bucket, key); err != nil {
		return errors.WithContext(
			errors.Wrapf(err, errors.CodeStoreWriteFailed, "failed to delete object %s", key),
			"bucket", bucket)
	}

	if c.invalidateOnDelete {
		c.cache.Invalidate(key)
	}

	return nil
}

// Invalidate drops any cached value for key without touching the store.
func (c *Client[V]) Invalidate(key string) {
	c.cache.Invalidate(key)
}

// Cache returns the cache backing the client.
func (c *Client[V]) Cache() *blobcache.Cache[V] {
	return c.cache
}
