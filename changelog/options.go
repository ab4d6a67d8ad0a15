package changelog

import (
	"time"

	"github.com/google/uuid"
	"github.com/oscarhermoso/cubecache/internal/logging"
)

// DefaultConcurrency bounds the parallel object store calls of one list or
// batch operation.
const DefaultConcurrency = 10

// Option configures a Store.
type Option func(*options)

type options struct {
	logger      *logging.Logger
	concurrency int
	clock       func() time.Time
	newID       func() string
}

func defaultOptions() *options {
	return &options{
		logger:      logging.NewNopLogger(),
		concurrency: DefaultConcurrency,
		clock:       time.Now,
		newID:       uuid.NewString,
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithConcurrency sets how many object store calls a list or batch operation
// runs at once. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithClock sets the time source used to date new documents.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithIDGenerator sets the function that names new documents.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		o.newID = newID
	}
}
