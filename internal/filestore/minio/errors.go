package minio

import (
	"context"
	"errors"
	"net/http"

	miniogo "github.com/minio/minio-go/v7"

	"github.com/koustreak/schemagen/internal/errs"
)

// S3 error codes, checked before the HTTP status.
var codeKinds = map[string]errs.ErrKind{
	"NoSuchBucket":          errs.ErrKindNotFound,
	"NoSuchKey":             errs.ErrKindNotFound,
	"AccessDenied":          errs.ErrKindPermissionDenied,
	"InvalidAccessKeyId":    errs.ErrKindPermissionDenied,
	"SignatureDoesNotMatch": errs.ErrKindPermissionDenied,
	"InvalidBucketName":     errs.ErrKindInvalidInput,
	"InvalidObjectName":     errs.ErrKindInvalidInput,
	"KeyTooLongError":       errs.ErrKindInvalidInput,
	"RequestTimeout":        errs.ErrKindTimeout,
	"SlowDown":              errs.ErrKindTimeout,
	"XMinioStorageFull":     errs.ErrKindIO,
}

var statusKinds = map[int]errs.ErrKind{
	http.StatusNotFound:     errs.ErrKindNotFound,
	http.StatusUnauthorized: errs.ErrKindPermissionDenied,
	http.StatusForbidden:    errs.ErrKindPermissionDenied,
	http.StatusBadRequest:   errs.ErrKindInvalidInput,
}

// mapError classifies a minio-go error. Anything without an S3 response is
// treated as a connection failure.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	kind := errs.ErrKindConnectionFailed
	var resp miniogo.ErrorResponse
	if errors.As(err, &resp) {
		if k, ok := codeKinds[resp.Code]; ok {
			kind = k
		} else if k, ok := statusKinds[resp.StatusCode]; ok {
			kind = k
		}
	}
	return errs.Wrap(kind, msg, err)
}
