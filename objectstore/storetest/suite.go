// Package storetest provides a conformance suite for objectstore.Store
// implementations.
//
// Example usage:
//
//	func TestMemoryConformance(t *testing.T) {
//	    storetest.TestSuite(t, func(t *testing.T) objectstore.Store {
//	        return objectstore.NewMemory()
//	    }, storetest.DefaultConfig())
//	}
package storetest

import (
	"bytes"
	"context"
	"testing"

	"github.com/oscarhermoso/cubecache/errors"
	"github.com/oscarhermoso/cubecache/objectstore"
)

// Config describes the buckets a store under test can write to.
type Config struct {
	// Bucket must exist (or be creatable on write) in every fresh store.
	Bucket string

	// SecondBucket enables the bucket isolation test when non-empty.
	SecondBucket string

	// SkipTests lists subtest names to skip (e.g., "BucketIsolation").
	SkipTests []string
}

// DefaultConfig returns a configuration using the "data" and "other" buckets.
func DefaultConfig() Config {
	return Config{
		Bucket:       "data",
		SecondBucket: "other",
	}
}

// TestSuite runs every conformance test, each against a fresh store.
func TestSuite(t *testing.T, newStore func(t *testing.T) objectstore.Store, config Config) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store objectstore.Store, config Config)
	}{
		{"PutGet", testPutGet},
		{"Overwrite", testOverwrite},
		{"GetMissing", testGetMissing},
		{"Delete", testDelete},
		{"DeleteMissing", testDeleteMissing},
		{"NestedKeys", testNestedKeys},
		{"BodyIsCopied", testBodyIsCopied},
		{"BucketIsolation", testBucketIsolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, skip := range config.SkipTests {
				if skip == tt.name {
					t.Skip("Skipped by provider configuration")
					return
				}
			}
			tt.fn(t, newStore(t), config)
		})
	}
}

func testPutGet(t *testing.T, store objectstore.Store, config Config) {
	ctx := context.Background()
	body := []byte(`{"foo":1}`)

	if err := store.PutObject(ctx, config.Bucket, "doc.json", body); err != nil {
		t.Fatalf("PutObject(doc.json): got error %v, want nil", err)
	}

	got, err := store.GetObject(ctx, config.Bucket, "doc.json")
	if err != nil {
		t.Fatalf("GetObject(doc.json): got error %v, want nil", err)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("GetObject(doc.json): got %q, want %q", got, body)
	}
}

func testOverwrite(t *testing.T, store objectstore.Store, config Config) {
	ctx := context.Background()

	if err := store.PutObject(ctx, config.Bucket, "doc.json", []byte(`"first"`)); err != nil {
		t.Fatalf("PutObject(first): got error %v", err)
	}
	if err := store.PutObject(ctx, config.Bucket, "doc.json", []byte(`"second"`)); err != nil {
		t.Fatalf("PutObject(second): got error %v", err)
	}

	got, err := store.GetObject(ctx, config.Bucket, "doc.json")
	if err != nil {
		t.Fatalf("GetObject(doc.json): got error %v", err)
	}
	if string(got) != `"second"` {
		t.Errorf("GetObject(doc.json): got %q, want %q", got, `"second"`)
	}
}

func testGetMissing(t *testing.T, store objectstore.Store, config Config) {
	_, err := store.GetObject(context.Background(), config.Bucket, "missing.json")
	if err == nil {
		t.Fatalf("GetObject(missing.json): got nil error, want not found")
	}
	if !errors.IsNotFound(err) {
		t.Errorf("GetObject(missing.json): got code %s, want %s", errors.GetCode(err), errors.CodeNotFound)
	}
}

func testDelete(t *testing.T, store objectstore.Store, config Config) {
	ctx := context.Background()

	if err := store.PutObject(ctx, config.Bucket, "doc.json", []byte(`1`)); err != nil {
		t.Fatalf("PutObject(doc.json): got error %v", err)
	}
	if err := store.DeleteObject(ctx, config.Bucket, "doc.json"); err != nil {
		t.Fatalf("DeleteObject(doc.json): got error %v, want nil", err)
	}

	_, err := store.GetObject(ctx, config.Bucket, "doc.json")
	if !errors.IsNotFound(err) {
		t.Errorf("GetObject after delete: got %v, want not found", err)
	}
}

func testDeleteMissing(t *testing.T, store objectstore.Store, config Config) {
	if err := store.DeleteObject(context.Background(), config.Bucket, "never-written.json"); err != nil {
		t.Errorf("DeleteObject(never-written.json): got error %v, want nil", err)
	}
}

func testNestedKeys(t *testing.T, store objectstore.Store, config Config) {
	ctx := context.Background()
	keys := []string{
		"changelog/cube-1/a.json",
		"changelog/cube-1/b.json",
		"changelog/cube-2/a.json",
	}

	for i, key := range keys {
		body := []byte{'0' + byte(i)}
		if err := store.PutObject(ctx, config.Bucket, key, body); err != nil {
			t.Fatalf("PutObject(%s): got error %v", key, err)
		}
	}

	for i, key := range keys {
		got, err := store.GetObject(ctx, config.Bucket, key)
		if err != nil {
			t.Errorf("GetObject(%s): got error %v", key, err)
			continue
		}
		if want := []byte{'0' + byte(i)}; !bytes.Equal(got, want) {
			t.Errorf("GetObject(%s): got %q, want %q", key, got, want)
		}
	}
}

func testBodyIsCopied(t *testing.T, store objectstore.Store, config Config) {
	ctx := context.Background()
	body := []byte(`[1,2,3]`)

	if err := store.PutObject(ctx, config.Bucket, "doc.json", body); err != nil {
		t.Fatalf("PutObject(doc.json): got error %v", err)
	}
	body[1] = '9'

	got, err := store.GetObject(ctx, config.Bucket, "doc.json")
	if err != nil {
		t.Fatalf("GetObject(doc.json): got error %v", err)
	}
	if string(got) != `[1,2,3]` {
		t.Errorf("GetObject(doc.json): got %q, want the body as written", got)
	}
}

func testBucketIsolation(t *testing.T, store objectstore.Store, config Config) {
	if config.SecondBucket == "" {
		t.Skip("no second bucket configured")
		return
	}
	ctx := context.Background()

	if err := store.PutObject(ctx, config.Bucket, "doc.json", []byte(`1`)); err != nil {
		t.Fatalf("PutObject(%s/doc.json): got error %v", config.Bucket, err)
	}

	_, err := store.GetObject(ctx, config.SecondBucket, "doc.json")
	if !errors.IsNotFound(err) {
		t.Errorf("GetObject(%s/doc.json): got %v, want not found", config.SecondBucket, err)
	}
}
