package logging

import (
	"context"

	"github.com/oscarhermoso/cubecache/errors"
)

// Operation names a cache or store operation for logging.
type Operation string

// Operation constants.
const (
	OpGetObject      Operation = "get_object"
	OpPutObject      Operation = "put_object"
	OpDeleteObject   Operation = "delete_object"
	OpGetDocument    Operation = "get_document"
	OpListDocuments  Operation = "list_documents"
	OpPutDocument    Operation = "put_document"
	OpBatchDocuments Operation = "batch_put_documents"
	OpEvictEntry     Operation = "evict_entry"
	OpInvalidate     Operation = "invalidate_entry"
)

// LogCacheHit logs a cache hit.
func LogCacheHit(ctx context.Context, logger *Logger, cache, key string) {
	logger.Debug(ctx, "cache hit",
		"cache", cache,
		"key", key,
		"result", "hit")
}

// LogCacheMiss logs a cache miss.
func LogCacheMiss(ctx context.Context, logger *Logger, cache, key string) {
	logger.Debug(ctx, "cache miss",
		"cache", cache,
		"key", key,
		"result", "miss")
}

// LogEviction logs a capacity eviction.
func LogEviction(ctx context.Context, logger *Logger, cache, key string, size int) {
	logger.Debug(ctx, "cache entry evicted",
		"cache", cache,
		"key", key,
		"entries", size,
		"reason", "capacity")
}

// LogStoreError logs a failed store call. Not-found results are expected on
// the read path and are logged at info; everything else is a warning.
func LogStoreError(ctx context.Context, logger *Logger, op Operation, bucket, key string, err error) {
	fields := []any{
		"operation", string(op),
		"bucket", bucket,
		"key", key,
		"code", string(errors.GetCode(err)),
		"retryable", errors.IsRetryable(err),
		"error", err.Error(),
	}

	if errors.IsNotFound(err) {
		logger.Info(ctx, "object not found", fields...)
		return
	}
	logger.Warn(ctx, "object store call failed", fields...)
}
