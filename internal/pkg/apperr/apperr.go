// Package apperr defines the error taxonomy shared by all modules.
// Handlers map these to HTTP statuses; everything else wraps and rethrows.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError is a user-correctable input failure. Message is the
// user-facing (Turkish) form error for Field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation builds a ValidationError.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports an unknown id or slug.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// NotFound builds a NotFoundError.
func NotFound(resource, key string) error {
	return &NotFoundError{Resource: resource, Key: key}
}

// UploadError means the media store write failed after all retries.
type UploadError struct {
	Target string
	Err    error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %s failed: %v", e.Target, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Upload builds an UploadError.
func Upload(target string, err error) error {
	return &UploadError{Target: target, Err: err}
}

// StoreCleanupError is a non-fatal remote deletion failure. It is logged by
// the caller and never propagated as a request failure.
type StoreCleanupError struct {
	Target string
	Err    error
}

func (e *StoreCleanupError) Error() string {
	return fmt.Sprintf("store cleanup failed for %s: %v", e.Target, e.Err)
}

func (e *StoreCleanupError) Unwrap() error { return e.Err }

// QueryError wraps a data-access failure that is not user-correctable.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Query wraps err as a QueryError, passing nil through.
func Query(op string, err error) error {
	if err == nil {
		return nil
	}
	return &QueryError{Op: op, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsUpload reports whether err is (or wraps) an UploadError.
func IsUpload(err error) bool {
	var e *UploadError
	return errors.As(err, &e)
}
