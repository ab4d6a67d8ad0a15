package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oscarhermoso/cubecache/blobcache"
	"github.com/oscarhermoso/cubecache/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cubecache.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

var credentials = map[string]string{
	"DATA_BUCKET":           "cubecobra-data",
	"AWS_ACCESS_KEY":        "access",
	"AWS_SECRET_ACCESS_KEY": "secret",
}

func TestLoad_EnvironmentOnly(t *testing.T) {
	cfg, err := LoadWithEnv("", credentials)
	require.NoError(t, err)

	assert.Equal(t, blobcache.DefaultCapacity, cfg.CacheSize())
	assert.Equal(t, blobcache.DefaultCapacity, cfg.DocumentCacheSize())
	assert.Equal(t, BackendS3, cfg.Store.Backend)
	assert.Equal(t, "cubecobra-data", cfg.Store.Bucket)
	assert.Equal(t, "us-east-2", cfg.Store.Region)
	assert.Equal(t, DefaultS3Endpoint, cfg.Store.Endpoint)
	assert.Equal(t, "info", cfg.Log.Level)

	mc := cfg.MinioConfig()
	assert.Equal(t, "access", mc.AccessKey)
	assert.Equal(t, "secret", mc.SecretKey)
	assert.True(t, mc.UseSSL)
}

func TestLoad_FileWithEnvironmentOverride(t *testing.T) {
	path := writeConfig(t, `
cache:
  max_size: 500
  document_max_size: 0
store:
  backend: local
  bucket: from-file
  root: /var/lib/cubecache
index:
  path: /var/lib/cubecache/index.db
log:
  level: debug
`)

	cfg, err := LoadWithEnv(path, map[string]string{
		"DATA_BUCKET":              "from-env",
		"CUBECACHE_CACHE_MAX_SIZE": "42",
	})
	require.NoError(t, err)

	assert.Equal(t, 42, cfg.CacheSize(), "environment overrides the file")
	assert.Equal(t, 0, cfg.DocumentCacheSize(), "an explicit zero is kept")
	assert.Equal(t, BackendLocal, cfg.Store.Backend)
	assert.Equal(t, "from-env", cfg.Store.Bucket)
	assert.Equal(t, "/var/lib/cubecache", cfg.Store.Root)
	assert.Equal(t, "/var/lib/cubecache/index.db", cfg.Index.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Empty(t, cfg.Store.Endpoint, "no endpoint default outside the s3 backend")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
		code errors.Code
	}{
		{
			name: "missing bucket",
			env:  map[string]string{"CUBECACHE_STORE_BACKEND": "memory"},
			code: errors.CodeInvalidConfig,
		},
		{
			name: "s3 without credentials",
			env:  map[string]string{"DATA_BUCKET": "b"},
			code: errors.CodeInvalidConfig,
		},
		{
			name: "local without root",
			env:  map[string]string{"DATA_BUCKET": "b", "CUBECACHE_STORE_BACKEND": "local"},
			code: errors.CodeInvalidConfig,
		},
		{
			name: "unknown backend",
			env:  map[string]string{"DATA_BUCKET": "b", "CUBECACHE_STORE_BACKEND": "gcs"},
			code: errors.CodeInvalidConfig,
		},
		{
			name: "negative cache size",
			env: map[string]string{
				"DATA_BUCKET":              "b",
				"CUBECACHE_STORE_BACKEND":  "memory",
				"CUBECACHE_CACHE_MAX_SIZE": "-1",
			},
			code: errors.CodeInvalidConfig,
		},
		{
			name: "bad log level",
			env: map[string]string{
				"DATA_BUCKET":             "b",
				"CUBECACHE_STORE_BACKEND": "memory",
				"CUBECACHE_LOG_LEVEL":     "loud",
			},
			code: errors.CodeInvalidConfig,
		},
		{
			name: "malformed integer",
			env:  map[string]string{"CUBECACHE_CACHE_MAX_SIZE": "lots"},
			code: errors.CodeInvalidConfig,
		},
		{
			name: "malformed yaml",
			file: "cache: [",
			env:  credentials,
			code: errors.CodeInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}
			cfg, err := LoadWithEnv(path, tt.env)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.yaml"), credentials)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestSetDefaults_NormalizesBackend(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Backend: "  MEMORY ", Bucket: "b"}}
	cfg.SetDefaults()

	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Empty(t, cfg.Store.Endpoint)
	require.NoError(t, cfg.Validate())
}
