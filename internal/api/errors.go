package api

import (
	"errors"
	"fmt"
	"net/http"
)

// FetchError wraps any failure of a store request: network errors, non-2xx
// statuses, and malformed response bodies. Callers see exactly this type at
// the package boundary.
type FetchError struct {
	Op     string
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the failure was a 404.
func (e *FetchError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// retryable reports whether the request may be retried. Client errors
// (4xx) are permanent; 5xx and transport failures are transient.
func (e *FetchError) retryable() bool {
	if e.Status == 0 {
		return true
	}
	return e.Status >= 500
}

// IsFetchError reports whether err is (or wraps) a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// IsNotFound reports whether err is a FetchError with a 404 status.
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.NotFound()
}
