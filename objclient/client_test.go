package objclient

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/oscarhermoso/cubecache/blobcache"
	"github.com/oscarhermoso/cubecache/errors"
	"github.com/oscarhermoso/cubecache/internal/logging"
	"github.com/oscarhermoso/cubecache/objectstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bucket = "data"

// countingStore wraps an in-memory store, counts calls and injects failures.
type countingStore struct {
	*objectstore.Memory

	mu        sync.Mutex
	gets      int
	puts      int
	deletes   int
	getErr    error
	putErr    error
	deleteErr error

	// doubleEncode stores every body as a JSON string of itself.
	doubleEncode bool
}

func newCountingStore() *countingStore {
	return &countingStore{Memory: objectstore.NewMemory()}
}

func (s *countingStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	s.mu.Lock()
	s.gets++
	err := s.getErr
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.Memory.GetObject(ctx, bucket, key)
}

func (s *countingStore) PutObject(ctx context.Context, bucket, key string, body []byte) error {
	s.mu.Lock()
	s.puts++
	err := s.putErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if s.doubleEncode {
		encoded, mErr := json.Marshal(string(body))
		if mErr != nil {
			return mErr
		}
		body = encoded
	}
	return s.Memory.PutObject(ctx, bucket, key, body)
}

func (s *countingStore) DeleteObject(ctx context.Context, bucket, key string) error {
	s.mu.Lock()
	s.deletes++
	err := s.deleteErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Memory.DeleteObject(ctx, bucket, key)
}

func (s *countingStore) getCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

func newTestClient(t *testing.T, store objectstore.Store, capacity int, opts ...Option) *Client[any] {
	t.Helper()
	cache, err := blobcache.New[any](capacity)
	require.NoError(t, err)
	return New(store, cache, opts...)
}

func TestClient_PutThenGetIsCacheHit(t *testing.T) {
	store := newCountingStore()
	client := newTestClient(t, store, 10)
	ctx := context.Background()
	value := map[string]any{"name": "Lightning Bolt", "cmc": float64(1)}

	require.NoError(t, client.Put(ctx, bucket, "cards/bolt.json", value))

	got, ok := client.Get(ctx, bucket, "cards/bolt.json")
	require.True(t, ok)
	assert.Equal(t, value, got)
	assert.Equal(t, 0, store.getCount(), "get after put must not read the store")
}

func TestClient_InvalidateForcesSingleFetch(t *testing.T) {
	store := newCountingStore()
	client := newTestClient(t, store, 10)
	ctx := context.Background()

	require.NoError(t, client.Put(ctx, bucket, "k.json", map[string]any{"v": float64(1)}))
	client.Invalidate("k.json")

	_, ok := client.Get(ctx, bucket, "k.json")
	require.True(t, ok)
	_, ok = client.Get(ctx, bucket, "k.json")
	require.True(t, ok)

	assert.Equal(t, 1, store.getCount())
}

func TestClient_RoundTrip(t *testing.T) {
	for _, doubleEncode := range []bool{false, true} {
		name := "single encoded"
		if doubleEncode {
			name = "double encoded"
		}
		t.Run(name, func(t *testing.T) {
			store := newCountingStore()
			store.doubleEncode = doubleEncode
			client := newTestClient(t, store, 10)
			ctx := context.Background()
			value := map[string]any{
				"Mainboard": map[string]any{
					"adds": []any{"card-1", "card-2"},
				},
				"count": float64(2),
			}

			require.NoError(t, client.Put(ctx, bucket, "changelog/c/1.json", value))
			client.Invalidate("changelog/c/1.json")

			got, ok := client.Get(ctx, bucket, "changelog/c/1.json")
			require.True(t, ok)
			assert.Equal(t, value, got)
			assert.Equal(t, 1, store.getCount())
		})
	}
}

func TestClient_DoubleEncodedBody(t *testing.T) {
	store := newCountingStore()
	client := newTestClient(t, store, 10)
	ctx := context.Background()

	require.NoError(t, store.Memory.PutObject(ctx, bucket, "k.json", []byte(`"{\"foo\":1}"`)))

	got, ok := client.Get(ctx, bucket, "k.json")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"foo": float64(1)}, got)
}

func TestClient_FetchFailureIsSoft(t *testing.T) {
	store := newCountingStore()
	store.getErr = errors.New(errors.CodeNetwork, "connection reset")
	var logs bytes.Buffer
	logger := logging.NewLogger(logging.LogConfig{Level: logging.LogLevelDebug, Output: &logs})
	client := newTestClient(t, store, 10, WithLogger(logger))

	got, ok := client.Get(context.Background(), bucket, "k.json")

	assert.False(t, ok)
	assert.Nil(t, got)
	assert.Equal(t, 0, client.Cache().Len(), "failed reads must not populate the cache")
	assert.Contains(t, logs.String(), "code=NETWORK_ERROR")
}

func TestClient_MissingObjectAfterInvalidate(t *testing.T) {
	store := newCountingStore()
	client := newTestClient(t, store, 10)
	ctx := context.Background()

	require.NoError(t, client.Put(ctx, bucket, "k.json", "x-but-json"))
	client.Invalidate("k.json")
	store.getErr = errors.New(errors.CodeNotFound, "404")

	var got any
	var ok bool
	require.NotPanics(t, func() {
		got, ok = client.Get(ctx, bucket, "k.json")
	})
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestClient_DecodeFailureIsSoft(t *testing.T) {
	store := newCountingStore()
	client := newTestClient(t, store, 10)
	ctx := context.Background()

	require.NoError(t, store.Memory.PutObject(ctx, bucket, "bad.json", []byte(`{"truncated":`)))

	_, ok := client.Get(ctx, bucket, "bad.json")
	assert.False(t, ok)
	assert.Equal(t, 0, client.Cache().Len())
}

func TestClient_PutFailurePropagates(t *testing.T) {
	store := newCountingStore()
	store.putErr = errors.New(errors.CodeTimeout, "deadline exceeded")
	client := newTestClient(t, store, 10)
	ctx := context.Background()

	err := client.Put(ctx, bucket, "k.json", map[string]any{"v": true})

	require.Error(t, err)
	assert.Equal(t, errors.CodeStoreWriteFailed, errors.GetCode(err))
	assert.True(t, errors.IsRetryable(err))
	_, cached := client.Cache().Peek("k.json")
	assert.False(t, cached, "a failed write must not stay cached")
}

func TestClient_PutReplacesCachedValue(t *testing.T) {
	store := newCountingStore()
	client := newTestClient(t, store, 10)
	ctx := context.Background()

	require.NoError(t, client.Put(ctx, bucket, "k.json", "v1"))
	require.NoError(t, client.Put(ctx, bucket, "k.json", "v2"))

	got, ok := client.Get(ctx, bucket, "k.json")
	require.True(t, ok)
	assert.Equal(t, "v2", got)
	assert.Equal(t, 1, client.Cache().Len())
}

func TestClient_PutUnencodableValue(t *testing.T) {
	store := newCountingStore()
	client := newTestClient(t, store, 10)
	ctx := context.Background()

	require.NoError(t, client.Put(ctx, bucket, "k.json", "cached"))

	err := client.Put(ctx, bucket, "k.json", make(chan int))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	got, ok := client.Get(ctx, bucket, "k.json")
	require.True(t, ok)
	assert.Equal(t, "cached", got, "a rejected value must not replace the cached one")
	assert.Equal(t, 1, store.puts)
}

func TestClient_DeleteLeavesCacheByDefault(t *testing.T) {
	store := newCountingStore()
	client := newTestClient(t, store, 10)
	ctx := context.Background()

	require.NoError(t, client.Put(ctx, bucket, "k.json", "v"))
	require.NoError(t, client.Delete(ctx, bucket, "k.json"))

	_, err := store.Memory.GetObject(ctx, bucket, "k.json")
	assert.True(t, errors.IsNotFound(err), "remote object must be gone")

	got, ok := client.Get(ctx, bucket, "k.json")
	assert.True(t, ok, "cached copy survives delete")
	assert.Equal(t, "v", got)
}

func TestClient_DeleteWithInvalidation(t *testing.T) {
	store := newCountingStore()
	client := newTestClient(t, store, 10, WithInvalidateOnDelete(true))
	ctx := context.Background()

	require.NoError(t, client.Put(ctx, bucket, "k.json", "v"))
	require.NoError(t, client.Delete(ctx, bucket, "k.json"))

	_, ok := client.Get(ctx, bucket, "k.json")
	assert.False(t, ok)
}

func TestClient_DeleteFailurePropagates(t *testing.T) {
	store := newCountingStore()
	store.deleteErr = errors.New(errors.CodeForbidden, "access denied")
	client := newTestClient(t, store, 10, WithInvalidateOnDelete(true))
	ctx := context.Background()

	require.NoError(t, client.Put(ctx, bucket, "k.json", "v"))
	err := client.Delete(ctx, bucket, "k.json")

	require.Error(t, err)
	assert.Equal(t, errors.CodeStoreWriteFailed, errors.GetCode(err))
	assert.Equal(t, "data", err.(errors.Error).Context()["bucket"])
	_, cached := client.Cache().Peek("k.json")
	assert.True(t, cached, "a failed delete leaves the cache alone")
}

func TestClient_EvictionForcesRefetch(t *testing.T) {
	store := newCountingStore()
	client := newTestClient(t, store, 1)
	ctx := context.Background()

	require.NoError(t, client.Put(ctx, bucket, "a.json", "a"))
	require.NoError(t, client.Put(ctx, bucket, "b.json", "b"))

	got, ok := client.Get(ctx, bucket, "a.json")
	require.True(t, ok)
	assert.Equal(t, "a", got)
	assert.Equal(t, 1, store.getCount())
	assert.Equal(t, 1, client.Cache().Len())
}

type cardMetadata struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

func TestClient_TypedValues(t *testing.T) {
	store := newCountingStore()
	cache, err := blobcache.New[cardMetadata](10)
	require.NoError(t, err)
	client := New(store, cache)
	ctx := context.Background()

	require.NoError(t, store.Memory.PutObject(ctx, bucket, "cards/bolt.json",
		[]byte(`"{\"name\":\"Lightning Bolt\",\"colors\":[\"R\"]}"`)))

	got, ok := client.Get(ctx, bucket, "cards/bolt.json")
	require.True(t, ok)
	assert.Equal(t, cardMetadata{Name: "Lightning Bolt", Colors: []string{"R"}}, got)

	_, ok = client.Get(ctx, bucket, "cards/missing.json")
	assert.False(t, ok)
}
