package minio

import (
	"context"
	"fmt"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/oscarhermoso/cubecache/errors"
	"github.com/oscarhermoso/cubecache/objectstore"
	"github.com/oscarhermoso/cubecache/objectstore/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestMinIO starts a MinIO container and returns a client for it.
func setupTestMinIO(t *testing.T) *minio.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     "minioadmin",
			"MINIO_ROOT_PASSWORD": "minioadmin",
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp"),
	}

	minioC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start MinIO container")
	t.Cleanup(func() {
		_ = minioC.Terminate(ctx)
	})

	endpoint, err := minioC.Endpoint(ctx, "")
	require.NoError(t, err, "failed to get container endpoint")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	require.NoError(t, err, "failed to create MinIO client")

	return client
}

func TestIntegration_Conformance(t *testing.T) {
	client := setupTestMinIO(t)
	ctx := context.Background()
	config := storetest.DefaultConfig()

	counter := 0
	storetest.TestSuite(t, func(t *testing.T) objectstore.Store {
		counter++
		store, err := New(Config{Client: client, Prefix: fmt.Sprintf("run-%d", counter)})
		require.NoError(t, err)
		require.NoError(t, store.EnsureBucket(ctx, config.Bucket))
		require.NoError(t, store.EnsureBucket(ctx, config.SecondBucket))
		return store
	}, config)
}

func TestIntegration_PrefixIsolation(t *testing.T) {
	client := setupTestMinIO(t)
	ctx := context.Background()

	staging, err := New(Config{Client: client, Prefix: "staging"})
	require.NoError(t, err)
	production, err := New(Config{Client: client, Prefix: "production"})
	require.NoError(t, err)
	require.NoError(t, staging.EnsureBucket(ctx, "data"))

	require.NoError(t, staging.PutObject(ctx, "data", "cards/a.json", []byte(`{"name":"Bolt"}`)))

	_, err = production.GetObject(ctx, "data", "cards/a.json")
	assert.True(t, errors.IsNotFound(err))

	raw, err := client.StatObject(ctx, "data", "staging/cards/a.json", minio.StatObjectOptions{})
	require.NoError(t, err)
	assert.Equal(t, "application/json", raw.ContentType)
}

func TestIntegration_EnsureBucketIsIdempotent(t *testing.T) {
	client := setupTestMinIO(t)
	ctx := context.Background()

	store, err := New(Config{Client: client})
	require.NoError(t, err)

	require.NoError(t, store.EnsureBucket(ctx, "data"))
	require.NoError(t, store.EnsureBucket(ctx, "data"))
}
