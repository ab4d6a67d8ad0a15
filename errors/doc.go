// Package errors provides the structured errors used across cubecache.
//
// Every error produced by the cache, the object stores and the index carries a
// Code and a retry Classification. The read path of the cached object client
// uses the code to decide how loudly to report a failure before degrading to a
// miss; the write path hands the error back to the caller unchanged.
//
// # Quick Start
//
// Creating errors:
//
//	err := errors.New(errors.CodeNotFound, "object not found")
//	err := errors.Newf(errors.CodeInvalidConfig, "capacity must not be negative: %d", n)
//
// Wrapping errors:
//
//	body, err := store.GetObject(ctx, bucket, key)
//	if err != nil {
//	    return errors.Wrap(err, errors.CodeNetwork, "failed to fetch object")
//	}
//
// Adding context:
//
//	err = errors.WithContext(err, "bucket", bucket)
//	err = errors.WithContext(err, "key", key)
//
// # Error Codes
//
//   - Resource errors: CodeNotFound, CodeForbidden
//   - Transport errors: CodeNetwork, CodeTimeout, CodeUnavailable
//   - Data errors: CodeDecodeFailed, CodeInvalidInput
//   - Write errors: CodeStoreWriteFailed, CodeIndexFailed, CodePartialFailure
//   - Configuration: CodeInvalidConfig
//   - System: CodeInternal, CodeUnknown
//
// Each code has a default classification. Transport errors are retryable;
// everything else is permanent. Wrapping a classified error keeps its
// classification. This package never retries anything itself.
//
// # Standard Library Compatibility
//
// Error values work with errors.Is, errors.As and errors.Unwrap from the
// standard library; Is and As are re-exported here for convenience.
package errors
