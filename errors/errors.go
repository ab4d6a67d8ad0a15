package errors

import "fmt"

// Error extends the standard error interface with a code, a retry
// classification and attached metadata.
type Error interface {
	error

	// Code returns the error code identifying the type of error.
	Code() Code

	// Classification returns whether the error is retryable or permanent.
	Classification() Classification

	// Message returns the human-readable message without the cause.
	Message() string

	// Context returns a copy of the attached metadata, or nil.
	Context() map[string]any

	// Unwrap returns the wrapped cause, if any.
	Unwrap() error
}

// codedError is the concrete Error. Construct it through package functions.
type codedError struct {
	code           Code
	classification Classification
	message        string
	context        map[string]any
	cause          error
}

// Error formats as "[CODE] message" or "[CODE] message: cause".
func (e *codedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

func (e *codedError) Code() Code {
	return e.code
}

func (e *codedError) Classification() Classification {
	return e.classification
}

func (e *codedError) Message() string {
	return e.message
}

func (e *codedError) Context() map[string]any {
	if e.context == nil {
		return nil
	}
	ctx := make(map[string]any, len(e.context))
	for k, v := range e.context {
		ctx[k] = v
	}
	return ctx
}

func (e *codedError) Unwrap() error {
	return e.cause
}
