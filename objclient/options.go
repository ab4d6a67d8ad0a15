package objclient

import "github.com/oscarhermoso/cubecache/internal/logging"

// Option configures a Client.
type Option func(*options)

type options struct {
	logger             *logging.Logger
	invalidateOnDelete bool
}

// WithLogger sets the logger used to report read failures.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithInvalidateOnDelete makes Delete drop the cached entry after the remote
// delete succeeds. Off by default.
func WithInvalidateOnDelete(enabled bool) Option {
	return func(o *options) {
		o.invalidateOnDelete = enabled
	}
}
