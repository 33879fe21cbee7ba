package cleaner

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// ErrorReason categorizes why a deletion failed
type ErrorReason int

const (
	ReasonPermissionDenied ErrorReason = iota
	ReasonFileInUse
	ReasonFileNotFound
	ReasonProtected
	ReasonUnknown
)

// String returns a human-readable error reason
func (e ErrorReason) String() string {
	switch e {
	case ReasonPermissionDenied:
		return "permission denied"
	case ReasonFileInUse:
		return "file is in use"
	case ReasonFileNotFound:
		return "file not found"
	case ReasonProtected:
		return "path is protected"
	case ReasonUnknown:
		return "unknown error"
	default:
		return "unspecified error"
	}
}

// DeletionError represents a detailed deletion error
type DeletionError struct {
	Path      string
	Reason    ErrorReason
	Original  error
	Retryable bool
}

// Error implements the error interface
func (e *DeletionError) Error() string {
	return fmt.Sprintf("%s: %s (%v)", e.Path, e.Reason, e.Original)
}

// Unwrap exposes the underlying error for errors.Is/As chains.
func (e *DeletionError) Unwrap() error {
	return e.Original
}

// CategorizeError analyzes an error and returns a categorized DeletionError
func CategorizeError(path string, err error) *DeletionError {
	if err == nil {
		return nil
	}

	delErr := &DeletionError{
		Path:     path,
		Original: err,
		Reason:   ReasonUnknown,
	}

	if os.IsNotExist(err) {
		delErr.Reason = ReasonFileNotFound
		return delErr
	}

	if os.IsPermission(err) {
		delErr.Reason = ReasonPermissionDenied
		return delErr
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM:
			delErr.Reason = ReasonPermissionDenied
		case syscall.EBUSY, syscall.ETXTBSY:
			delErr.Reason = ReasonFileInUse
			delErr.Retryable = true
		case syscall.ENOENT:
			delErr.Reason = ReasonFileNotFound
		}
	}

	return delErr
}

// GroupErrors groups deletion errors by reason
func GroupErrors(errs []*DeletionError) map[ErrorReason][]*DeletionError {
	grouped := make(map[ErrorReason][]*DeletionError)
	for _, err := range errs {
		grouped[err.Reason] = append(grouped[err.Reason], err)
	}
	return grouped
}
