// Package config loads cubecache settings from an optional YAML file and the
// environment. Environment variables override the file; anything still unset
// falls back to the defaults in SetDefaults.
package config

import (
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/oscarhermoso/cubecache/blobcache"
	"github.com/oscarhermoso/cubecache/errors"
	"github.com/oscarhermoso/cubecache/internal/logging"
	"github.com/oscarhermoso/cubecache/objectstore/minio"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendS3     = "s3"
	BackendLocal  = "local"
	BackendMemory = "memory"
)

// DefaultS3Endpoint is used for the s3 backend when no endpoint is set.
const DefaultS3Endpoint = "s3.us-east-2.amazonaws.com"

// Config is the complete cubecache configuration.
type Config struct {
	Cache CacheConfig `yaml:"cache"`
	Store StoreConfig `yaml:"store"`
	Index IndexConfig `yaml:"index"`
	Log   LogConfig   `yaml:"log"`
}

// CacheConfig sizes the in-memory caches. A size of 0 disables caching.
type CacheConfig struct {
	MaxSize         *int `yaml:"max_size" env:"CUBECACHE_CACHE_MAX_SIZE"`
	DocumentMaxSize *int `yaml:"document_max_size" env:"CUBECACHE_DOCUMENT_CACHE_MAX_SIZE"`
}

// StoreConfig selects and configures the object store.
type StoreConfig struct {
	Backend    string `yaml:"backend" env:"CUBECACHE_STORE_BACKEND"`
	Bucket     string `yaml:"bucket" env:"DATA_BUCKET"`
	Endpoint   string `yaml:"endpoint" env:"CUBECACHE_S3_ENDPOINT"`
	AccessKey  string `yaml:"access_key" env:"AWS_ACCESS_KEY"`
	SecretKey  string `yaml:"secret_key" env:"AWS_SECRET_ACCESS_KEY"`
	DisableSSL bool   `yaml:"disable_ssl" env:"CUBECACHE_S3_DISABLE_SSL"`
	Region     string `yaml:"region" env:"CUBECACHE_S3_REGION"`
	Prefix     string `yaml:"prefix" env:"CUBECACHE_S3_PREFIX"`

	// Root is the directory of the local backend.
	Root string `yaml:"root" env:"CUBECACHE_STORE_ROOT"`
}

// IndexConfig configures the changelog index. An empty path keeps the index
// in memory.
type IndexConfig struct {
	Path string `yaml:"path" env:"CUBECACHE_INDEX_PATH"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" env:"CUBECACHE_LOG_LEVEL"`
}

// Load reads the YAML file at path (skipped when path is empty), applies the
// process environment, fills defaults and validates the result.
func Load(path string) (*Config, error) {
	return load(path, env.Options{})
}

// LoadWithEnv is Load with an explicit environment instead of the process's.
func LoadWithEnv(path string, environment map[string]string) (*Config, error) {
	return load(path, env.Options{Environment: environment})
}

func load(path string, opts env.Options) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WithContext(
					errors.Wrap(err, errors.CodeNotFound, "config file not found"),
					"path", path)
			}
			return nil, errors.WithContext(
				errors.Wrap(err, errors.CodeInvalidConfig, "failed to read config file"),
				"path", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.WithContext(
				errors.Wrap(err, errors.CodeInvalidConfig, "failed to parse config file"),
				"path", path)
		}
	}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to parse environment")
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetDefaults fills every unset field.
func (c *Config) SetDefaults() {
	if c.Cache.MaxSize == nil {
		size := blobcache.DefaultCapacity
		c.Cache.MaxSize = &size
	}
	if c.Cache.DocumentMaxSize == nil {
		size := blobcache.DefaultCapacity
		c.Cache.DocumentMaxSize = &size
	}

	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = BackendS3
	}
	if c.Store.Region == "" {
		c.Store.Region = minio.DefaultRegion
	}
	if c.Store.Backend == BackendS3 && c.Store.Endpoint == "" {
		c.Store.Endpoint = DefaultS3Endpoint
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Cache.MaxSize != nil && *c.Cache.MaxSize < 0 {
		return errors.Newf(errors.CodeInvalidConfig, "cache.max_size must not be negative: %d", *c.Cache.MaxSize)
	}
	if c.Cache.DocumentMaxSize != nil && *c.Cache.DocumentMaxSize < 0 {
		return errors.Newf(errors.CodeInvalidConfig, "cache.document_max_size must not be negative: %d", *c.Cache.DocumentMaxSize)
	}

	if strings.TrimSpace(c.Store.Bucket) == "" {
		return errors.New(errors.CodeInvalidConfig, "store.bucket is required (DATA_BUCKET)")
	}

	switch c.Store.Backend {
	case BackendS3:
		if c.Store.AccessKey == "" || c.Store.SecretKey == "" {
			return errors.New(errors.CodeInvalidConfig,
				"s3 backend requires credentials (AWS_ACCESS_KEY, AWS_SECRET_ACCESS_KEY)")
		}
	case BackendLocal:
		if strings.TrimSpace(c.Store.Root) == "" {
			return errors.New(errors.CodeInvalidConfig, "local backend requires store.root")
		}
	case BackendMemory:
	default:
		return errors.Newf(errors.CodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}

	if _, err := logging.ParseLogLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, errors.CodeInvalidConfig, "invalid log.level")
	}
	return nil
}

// CacheSize returns the object cache capacity.
func (c *Config) CacheSize() int {
	if c.Cache.MaxSize == nil {
		return blobcache.DefaultCapacity
	}
	return *c.Cache.MaxSize
}

// DocumentCacheSize returns the changelog cache capacity.
func (c *Config) DocumentCacheSize() int {
	if c.Cache.DocumentMaxSize == nil {
		return blobcache.DefaultCapacity
	}
	return *c.Cache.DocumentMaxSize
}

// MinioConfig returns the connection settings of the s3 backend.
func (c *Config) MinioConfig() minio.Config {
	return minio.Config{
		Endpoint:  c.Store.Endpoint,
		AccessKey: c.Store.AccessKey,
		SecretKey: c.Store.SecretKey,
		UseSSL:    !c.Store.DisableSSL,
		Region:    c.Store.Region,
		Prefix:    c.Store.Prefix,
	}
}
