// Package cli implements the cubecache operator command.
package cli

import (
	"context"
	"io"

	"github.com/oscarhermoso/cubecache/blobcache"
	"github.com/oscarhermoso/cubecache/changelog"
	"github.com/oscarhermoso/cubecache/config"
	"github.com/oscarhermoso/cubecache/errors"
	"github.com/oscarhermoso/cubecache/index"
	"github.com/oscarhermoso/cubecache/index/sqlite"
	"github.com/oscarhermoso/cubecache/internal/logging"
	"github.com/oscarhermoso/cubecache/objclient"
	"github.com/oscarhermoso/cubecache/objectstore"
	"github.com/oscarhermoso/cubecache/objectstore/billy"
	"github.com/oscarhermoso/cubecache/objectstore/minio"
)

// App holds the clients built from a configuration.
type App struct {
	Bucket     string
	Objects    *objclient.Client[any]
	Changelogs *changelog.Store
	Logger     *logging.Logger

	closers []io.Closer
}

// NewApp wires the object store, index and caches selected by cfg.
func NewApp(cfg *config.Config, logger *logging.Logger) (*App, error) {
	store, err := newObjectStore(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Bucket: cfg.Store.Bucket, Logger: logger}

	var idx index.Index
	if cfg.Index.Path == "" {
		idx = index.NewMemory()
	} else {
		sqlIdx, err := sqlite.Open(cfg.Index.Path)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, sqlIdx)
		idx = sqlIdx
	}

	objects, err := blobcache.New[any](cfg.CacheSize(),
		blobcache.WithName("objects"),
		blobcache.WithLogger(logger))
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	docs, err := blobcache.New[changelog.Changelog](cfg.DocumentCacheSize(),
		blobcache.WithName("changelog"),
		blobcache.WithLogger(logger))
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Objects = objclient.New(store, objects, objclient.WithLogger(logger))
	app.Changelogs = changelog.NewStore(store, idx, docs, cfg.Store.Bucket, changelog.WithLogger(logger))
	return app, nil
}

// Close releases the index handle.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func newObjectStore(cfg *config.Config) (objectstore.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendS3:
		store, err := minio.New(cfg.MinioConfig())
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendLocal:
		return billy.NewLocal(cfg.Store.Root), nil
	case config.BackendMemory:
		return objectstore.NewMemory(), nil
	default:
		return nil, errors.Newf(errors.CodeInvalidConfig, "unknown store backend %q", cfg.Store.Backend)
	}
}

// EnsureBucket creates the configured bucket when the backend supports it.
func EnsureBucket(ctx context.Context, cfg *config.Config) error {
	if cfg.Store.Backend != config.BackendS3 {
		return nil
	}
	store, err := minio.New(cfg.MinioConfig())
	if err != nil {
		return err
	}
	return store.EnsureBucket(ctx, cfg.Store.Bucket)
}
