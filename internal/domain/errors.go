package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication means the credential is missing, malformed or expired.
	ErrAuthentication = errors.New("authentication failed")

	// ErrUserNotFound means the credential is valid but no internal user is linked to it.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateBookmark means the user already bookmarked the place.
	ErrDuplicateBookmark = errors.New("place already bookmarked")

	// ErrIdentityUnavailable means the identity provider could not be reached.
	ErrIdentityUnavailable = errors.New("identity provider unavailable")

	ErrReportNotFound = errors.New("accessibility report not found")
)

// StorageError wraps any failure of the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError returns nil when err is nil so it can wrap call results directly.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorage reports whether err carries a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
