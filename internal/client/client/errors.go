package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrRateLimited    = errors.New("rate limited")
	ErrSessionExpired = errors.New("session expired")
)

// APIError is a non-2xx answer from the admin API.
type APIError struct {
	Status  int
	Method  string
	Path    string
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	}
	return false
}

// SessionExpiredError is returned for a request whose credential could not
// be refreshed. The session has been logged out by then.
type SessionExpiredError struct {
	Original *APIError
	Cause    error
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("%s: %v (refresh: %v)", ErrSessionExpired, e.Original, e.Cause)
}

func (e *SessionExpiredError) Unwrap() []error {
	errs := []error{ErrSessionExpired}
	if e.Original != nil {
		errs = append(errs, e.Original)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}
