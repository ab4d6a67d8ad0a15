package blobcache

import (
	"time"

	"github.com/oscarhermoso/cubecache/internal/logging"
)

// Option configures a Cache.
type Option func(*options)

type options struct {
	clock  func() time.Time
	logger *logging.Logger
	name   string
}

// WithClock sets the time source used to stamp insertions.
// Primarily useful for tests that need deterministic timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithLogger sets the logger used for hit, miss and eviction events.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithName labels the cache in log output.
//
// Example:
//
//	docs, _ := blobcache.New[*changelog.Changelog](10000, blobcache.WithName("changelog"))
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}
