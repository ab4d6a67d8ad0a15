package errors

import "fmt"

// New creates an Error with the given code and message.
// The classification is taken from the code's default.
//
// Example:
//
//	err := errors.New(errors.CodeNotFound, "object not found")
func New(code Code, message string) Error {
	return &codedError{
		code:           code,
		classification: defaultClassification(code),
		message:        message,
	}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) Error {
	return New(code, fmt.Sprintf(format, args...))
}
