package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps err with a code and message while preserving it as the cause.
//
// If err already carries a classification it is preserved; otherwise the
// default classification for code is used. Returns nil if err is nil.
//
// Example:
//
//	if err := store.PutObject(ctx, bucket, key, body); err != nil {
//	    return errors.Wrap(err, errors.CodeStoreWriteFailed, "failed to write object")
//	}
func Wrap(err error, code Code, message string) Error {
	if err == nil {
		return nil
	}

	classification := defaultClassification(code)
	var coded Error
	if errors.As(err, &coded) {
		classification = coded.Classification()
	}

	return &codedError{
		code:           code,
		classification: classification,
		message:        message,
		cause:          err,
	}
}

// Wrapf wraps err with a formatted message. Returns nil if err is nil.
func Wrapf(err error, code Code, format string, args ...any) Error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithContext returns a copy of err with one metadata field added.
// Errors that are not an Error are converted using CodeUnknown.
// Returns nil if err is nil.
//
// Example:
//
//	err = errors.WithContext(err, "key", key)
func WithContext(err error, key string, value any) Error {
	if err == nil {
		return nil
	}

	var coded Error
	if !errors.As(err, &coded) {
		coded = &codedError{
			code:           CodeUnknown,
			classification: ClassificationPermanent,
			message:        err.Error(),
			cause:          err,
		}
	}

	ctx := coded.Context()
	if ctx == nil {
		ctx = make(map[string]any, 1)
	}
	ctx[key] = value

	return &codedError{
		code:           coded.Code(),
		classification: coded.Classification(),
		message:        coded.Message(),
		context:        ctx,
		cause:          coded.Unwrap(),
	}
}

// WithClassification returns a copy of err with its classification replaced.
// Returns nil if err is nil.
func WithClassification(err error, classification Classification) Error {
	if err == nil {
		return nil
	}

	var coded Error
	if !errors.As(err, &coded) {
		return &codedError{
			code:           CodeUnknown,
			classification: classification,
			message:        err.Error(),
			cause:          err,
		}
	}

	return &codedError{
		code:           coded.Code(),
		classification: classification,
		message:        coded.Message(),
		context:        coded.Context(),
		cause:          coded.Unwrap(),
	}
}
