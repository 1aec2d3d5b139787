package servicelayer

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates the addressed record does not exist upstream.
	ErrNotFound = errors.New("record not found")
)

// StatusError is a non-2xx Service Layer response, with the upstream
// status and body preserved for diagnostics.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("service layer returned %d: %s", e.StatusCode, e.Body)
}

// IsAuth reports whether the response indicates a rejected session or
// rejected credentials.
func (e *StatusError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsAuthFailure reports whether err is an upstream 401/403 response.
func IsAuthFailure(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.IsAuth()
}
