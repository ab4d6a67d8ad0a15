package objectstore

import (
	"context"
	"sync"

	"github.com/oscarhermoso/cubecache/errors"
	"github.com/oscarhermoso/cubecache/internal/keyutil"
)

// Memory is a map-backed Store. Bodies are copied on the way in and out.
type Memory struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{buckets: make(map[string]map[string][]byte)}
}

// GetObject returns a copy of the body stored under key.
func (m *Memory) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeTimeout, "get object cancelled")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	body, ok := m.buckets[bucket][key]
	if !ok {
		return nil, errors.Newf(errors.CodeNotFound, "object %s/%s not found", bucket, key)
	}

	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

// PutObject stores a copy of body under key.
func (m *Memory) PutObject(ctx context.Context, bucket, key string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CodeTimeout, "put object cancelled")
	}
	if bucket == "" || !keyutil.Valid(key) {
		return errors.Newf(errors.CodeInvalidInput, "invalid object location %q/%q", bucket, key)
	}

	stored := make([]byte, len(body))
	copy(stored, body)

	m.mu.Lock()
	defer m.mu.Unlock()

	objects, ok := m.buckets[bucket]
	if !ok {
		objects = make(map[string][]byte)
		m.buckets[bucket] = objects
	}
	objects[key] = stored
	return nil
}

// DeleteObject removes key. Missing keys are ignored.
func (m *Memory) DeleteObject(ctx context.Context, bucket, key string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CodeTimeout, "delete object cancelled")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.buckets[bucket], key)
	return nil
}

// Len returns the number of objects held in bucket.
func (m *Memory) Len(bucket string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.buckets[bucket])
}
