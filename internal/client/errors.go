package client

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse means the body was not the expected {success, ...} envelope
	ErrMalformedResponse = errors.New("malformed response")
	// ErrInvalidRequest means the request was rejected before being sent
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnsupportedFileType means an upload is not png, jpg or gif
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// StatusError is returned when the API answers with a non-2xx status.
// Message holds the server's message when the body carried one.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed (status %d)", e.StatusCode)
}

// APIError is returned when a well-formed response reports success=false
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsTransport reports whether err came from the connection or from an
// unreadable response rather than from the server's verdict
func IsTransport(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *StatusError
	var apiErr *APIError
	return !errors.As(err, &statusErr) && !errors.As(err, &apiErr) && !errors.Is(err, ErrInvalidRequest)
}
