package errors

import (
	stderrors "errors"
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// GetCode extracts the Code from the outermost Error in err's chain.
// Returns CodeUnknown if err is nil or carries no code.
//
// Example:
//
//	if errors.GetCode(err) == errors.CodeNotFound {
//	    return nil, false
//	}
func GetCode(err error) Code {
	if err == nil {
		return CodeUnknown
	}

	var coded Error
	if stderrors.As(err, &coded) {
		return coded.Code()
	}

	return CodeUnknown
}

// GetClassification extracts the Classification from err's chain.
// Returns ClassificationPermanent if err is nil or carries no classification.
func GetClassification(err error) Classification {
	if err == nil {
		return ClassificationPermanent
	}

	var coded Error
	if stderrors.As(err, &coded) {
		return coded.Classification()
	}

	return ClassificationPermanent
}

// IsRetryable returns true if err is classified as retryable.
func IsRetryable(err error) bool {
	return GetClassification(err).IsRetryable()
}

// IsNotFound returns true if err carries CodeNotFound anywhere in its chain.
func IsNotFound(err error) bool {
	for err != nil {
		var coded Error
		if !stderrors.As(err, &coded) {
			return false
		}
		if coded.Code() == CodeNotFound {
			return true
		}
		err = coded.Unwrap()
	}
	return false
}
