package changelog

import (
	"fmt"
	"strings"
)

// DocumentError is the failure of one document in a batch.
type DocumentError struct {
	ID     string
	CubeID string
	Err    error
}

func (e DocumentError) Error() string {
	return fmt.Sprintf("changelog %s/%s: %v", e.CubeID, e.ID, e.Err)
}

func (e DocumentError) Unwrap() error {
	return e.Err
}

// BatchError reports the documents of a batch that were not written.
// Documents not listed were written successfully.
type BatchError struct {
	Total    int
	Failures []DocumentError
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%d of %d changelogs failed: %s",
		len(e.Failures), e.Total, strings.Join(e.FailedIDs(), ", "))
}

// Unwrap returns the individual document errors.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// FailedIDs returns the ids of the failed documents in batch order.
func (e *BatchError) FailedIDs() []string {
	ids := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		ids[i] = f.ID
	}
	return ids
}
