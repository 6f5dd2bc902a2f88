package client

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

var (
	// ErrEmailTaken is returned by Register when the e-mail is already in use.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidCredentials is returned by Login for an unknown e-mail or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Reason returns the human-readable part of err for status lines: the
// backend's message for an HTTPError, the error text otherwise.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Message != "" {
			return httpErr.Message
		}
		return http.StatusText(httpErr.StatusCode)
	}
	return err.Error()
}
