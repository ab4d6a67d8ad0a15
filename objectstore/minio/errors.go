package minio

import (
	"context"
	stderrors "errors"
	"net"

	"github.com/minio/minio-go/v7"
	"github.com/oscarhermoso/cubecache/errors"
)

// translate converts MinIO errors into coded errors.
func translate(err error, message string) error {
	if err == nil {
		return nil
	}

	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return errors.Wrap(err, errors.CodeNotFound, message)
	case "AccessDenied":
		return errors.Wrap(err, errors.CodeForbidden, message)
	case "SlowDown", "ServiceUnavailable", "InternalError":
		return errors.Wrap(err, errors.CodeUnavailable, message)
	}

	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return errors.Wrap(err, errors.CodeTimeout, message)
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.Wrap(err, errors.CodeTimeout, message)
	}

	return errors.Wrap(err, errors.CodeNetwork, message)
}
