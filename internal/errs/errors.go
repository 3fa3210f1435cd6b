// Package errs provides the unified error type used across schemagen.
//
// Every subsystem (database drivers, introspection, emission, output sinks)
// wraps its native errors into *errs.Error before returning them. Callers use
// the Is* predicates to decide what to report without importing
// driver-specific packages.
//
// Usage:
//
//	// in a driver, wrap native errors:
//	return errs.Wrap(errs.ErrKindQueryFailed, "describe query failed", mysqlErr)
//
//	// in the CLI, branch on the kind:
//	if errs.IsConfiguration(err) {
//	    printMissing(errs.DetailsOf(err))
//	}
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrKind categorises an error without exposing subsystem-specific codes.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindNotFound                 // no rows, no object, no bucket
	ErrKindConnectionFailed         // cannot reach the backend
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindQueryFailed              // SQL or storage operation error
	ErrKindInvalidInput             // bad arguments from the caller
	ErrKindPermissionDenied         // access denied / auth failure

	ErrKindConfiguration // required setting missing or malformed
	ErrKindSchema        // metadata query or catalog lookup failed
	ErrKindConsistency   // catalog disagrees with the result descriptor
	ErrKindIO            // directory creation or file write failed
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindPermissionDenied:
		return "permission_denied"
	case ErrKindConfiguration:
		return "configuration"
	case ErrKindSchema:
		return "schema"
	case ErrKindConsistency:
		return "consistency"
	case ErrKindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all schemagen subsystems.
type Error struct {
	Kind    ErrKind
	Message string
	// Details carries per-item context, e.g. every missing setting label.
	Details []string
	Cause   error // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Details) > 0 {
		msg = fmt.Sprintf("%s [%s]", msg, strings.Join(e.Details, ", "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, msg)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf is New with a format string.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// WithDetails creates an *Error that lists every offending item.
func WithDetails(kind ErrKind, msg string, details []string) *Error {
	return &Error{Kind: kind, Message: msg, Details: details}
}

// --- Predicates ---

// IsNotFound reports whether err represents a "not found" result.
func IsNotFound(err error) bool {
	return kindOf(err) == ErrKindNotFound
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return kindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a connectivity or auth failure.
func IsConnectionFailed(err error) bool {
	return kindOf(err) == ErrKindConnectionFailed
}

// IsQueryFailed reports whether err is a backend operation failure.
func IsQueryFailed(err error) bool {
	return kindOf(err) == ErrKindQueryFailed
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return kindOf(err) == ErrKindInvalidInput
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return kindOf(err) == ErrKindPermissionDenied
}

// IsConfiguration reports whether err is a missing or malformed setting.
func IsConfiguration(err error) bool {
	return kindOf(err) == ErrKindConfiguration
}

// IsSchema reports whether err came from a failed metadata or catalog lookup.
func IsSchema(err error) bool {
	return kindOf(err) == ErrKindSchema
}

// IsConsistency reports whether the catalog disagreed with the introspected columns.
func IsConsistency(err error) bool {
	return kindOf(err) == ErrKindConsistency
}

// IsIO reports whether err is a directory or file write failure.
func IsIO(err error) bool {
	return kindOf(err) == ErrKindIO
}

// KindOf returns the outermost ErrKind in the chain.
func KindOf(err error) ErrKind {
	return kindOf(err)
}

// HasKind reports whether any *Error in the chain, outermost or a wrapped
// cause, has kind.
func HasKind(err error, kind ErrKind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

// DetailsOf returns the Details of the outermost *Error in the chain.
func DetailsOf(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}

// kindOf extracts the ErrKind from any error in the chain.
func kindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
