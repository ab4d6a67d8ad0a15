package errors

// Code identifies a specific error condition.
// Codes are string-based so they read well in structured logs.
type Code string

const (
	// Resource errors.

	// CodeNotFound indicates a requested object or document does not exist.
	CodeNotFound Code = "NOT_FOUND"

	// CodeForbidden indicates the store refused access to the object.
	CodeForbidden Code = "FORBIDDEN"

	// Transport errors.

	// CodeNetwork indicates the remote store could not be reached or failed mid-request.
	CodeNetwork Code = "NETWORK_ERROR"

	// CodeTimeout indicates a remote call exceeded its deadline.
	CodeTimeout Code = "TIMEOUT"

	// CodeUnavailable indicates the remote store is temporarily unavailable.
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"

	// Data errors.

	// CodeDecodeFailed indicates a stored body could not be decoded.
	CodeDecodeFailed Code = "DECODE_FAILED"

	// CodeInvalidInput indicates the caller supplied an unusable value.
	CodeInvalidInput Code = "INVALID_INPUT"

	// Write errors.

	// CodeStoreWriteFailed indicates an object write or delete failed.
	CodeStoreWriteFailed Code = "STORE_WRITE_FAILED"

	// CodeIndexFailed indicates an index query or write failed.
	CodeIndexFailed Code = "INDEX_FAILED"

	// CodePartialFailure indicates some items of a batch failed while others succeeded.
	CodePartialFailure Code = "PARTIAL_FAILURE"

	// Configuration errors.

	// CodeInvalidConfig indicates a configuration error prevents construction.
	CodeInvalidConfig Code = "INVALID_CONFIGURATION"

	// System errors.

	// CodeInternal indicates an internal error.
	CodeInternal Code = "INTERNAL_ERROR"

	// CodeUnknown indicates an unclassified error.
	CodeUnknown Code = "UNKNOWN"
)

// Classification indicates whether an error may succeed on retry.
type Classification string

const (
	// ClassificationRetryable marks temporary failures such as timeouts.
	ClassificationRetryable Classification = "RETRYABLE"

	// ClassificationPermanent marks failures that will not succeed on retry.
	ClassificationPermanent Classification = "PERMANENT"
)

// IsRetryable returns true if the classification indicates retry may help.
func (c Classification) IsRetryable() bool {
	return c == ClassificationRetryable
}

var defaultClassifications = map[Code]Classification{
	CodeNetwork:     ClassificationRetryable,
	CodeTimeout:     ClassificationRetryable,
	CodeUnavailable: ClassificationRetryable,

	CodeNotFound:         ClassificationPermanent,
	CodeForbidden:        ClassificationPermanent,
	CodeDecodeFailed:     ClassificationPermanent,
	CodeInvalidInput:     ClassificationPermanent,
	CodeStoreWriteFailed: ClassificationPermanent,
	CodeIndexFailed:      ClassificationPermanent,
	CodePartialFailure:   ClassificationPermanent,
	CodeInvalidConfig:    ClassificationPermanent,
	CodeInternal:         ClassificationPermanent,
	CodeUnknown:          ClassificationPermanent,
}

// defaultClassification returns ClassificationPermanent for unmapped codes.
func defaultClassification(code Code) Classification {
	if class, ok := defaultClassifications[code]; ok {
		return class
	}
	return ClassificationPermanent
}
