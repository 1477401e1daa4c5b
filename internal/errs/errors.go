// Package errs defines the error taxonomy shared by the tailing engine.
package errs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

var (
	ErrFileNotFound     = errors.New("file not found")
	ErrAccessDenied     = errors.New("access denied")
	ErrMalformedInput   = errors.New("malformed input")
	ErrTimeout          = errors.New("operation timeout")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnclassified     = errors.New("unclassified error")
)

// Kind is the category of an error
type Kind string

const (
	KindFileNotFound     Kind = "FILE_NOT_FOUND"
	KindAccessDenied     Kind = "ACCESS_DENIED"
	KindMalformedInput   Kind = "MALFORMED_INPUT"
	KindTimeout          Kind = "TIMEOUT"
	KindPermissionDenied Kind = "PERMISSION_DENIED"
	KindUnclassified     Kind = "UNCLASSIFIED"
)

func NewFileNotFound(path string) error {
	return fmt.Errorf("%w: %s", ErrFileNotFound, path)
}

func NewAccessDenied(path string, reason error) error {
	return fmt.Errorf("%w: %s: %v", ErrAccessDenied, path, reason)
}

func NewMalformedInput(what string, reason error) error {
	if reason == nil {
		return fmt.Errorf("%w: %s", ErrMalformedInput, what)
	}
	return fmt.Errorf("%w: %s: %v", ErrMalformedInput, what, reason)
}

func NewTimeout(what string) error {
	return fmt.Errorf("%w: %s", ErrTimeout, what)
}

func NewPermissionDenied(what string) error {
	return fmt.Errorf("%w: %s", ErrPermissionDenied, what)
}

// FromIO maps an os/io error for path onto the taxonomy. Errors that do not
// fit a category are wrapped with ErrUnclassified and keep their cause.
func FromIO(path string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return NewFileNotFound(path)
	case errors.Is(err, fs.ErrPermission):
		return NewAccessDenied(path, err)
	case errors.Is(err, os.ErrDeadlineExceeded):
		return fmt.Errorf("%w: %s: %w", ErrTimeout, path, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrUnclassified, path, err)
	}
}

// Classify returns the category of err. Plain os errors are recognised too.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, ErrFileNotFound), errors.Is(err, fs.ErrNotExist):
		return KindFileNotFound
	case errors.Is(err, ErrAccessDenied), errors.Is(err, fs.ErrPermission):
		return KindAccessDenied
	case errors.Is(err, ErrMalformedInput):
		return KindMalformedInput
	case errors.Is(err, ErrTimeout), errors.Is(err, os.ErrDeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrPermissionDenied):
		return KindPermissionDenied
	default:
		return KindUnclassified
	}
}
