package domain

import (
	"fmt"
	"net/http"
)

// APIResult is the outcome of one request/response cycle with the upstream
// API. A status in [200,300) implies Data holds the normalised payload.
type APIResult[T any] struct {
	Status  int                 `json:"status"`
	Data    T                   `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// OK reports whether the status is a 2xx
func (r APIResult[T]) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Failure classifies a non-2xx result, nil on success
func (r APIResult[T]) Failure() error {
	return Classify(r.Status)
}

// Err returns the result as an *UpstreamError, nil on 2xx
func (r APIResult[T]) Err() error {
	if r.OK() {
		return nil
	}
	return &UpstreamError{Status: r.Status, Message: r.Message, Errors: r.Errors}
}

// Retryable reports whether another attempt may change the outcome
func (r APIResult[T]) Retryable() bool {
	return r.Status >= 500
}

// Classify maps an upstream status onto the error taxonomy. A status of 0
// means no response was received.
func Classify(status int) error {
	switch {
	case status == 0:
		return ErrUpstreamUnreachable
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return ErrUnauthenticated
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusUnprocessableEntity:
		return ErrValidation
	case status >= 500:
		return ErrUpstreamServer
	default:
		return ErrUpstreamRejected
	}
}

// Convert re-types a result, leaving the payload zero
func Convert[T, U any](r APIResult[T]) APIResult[U] {
	return APIResult[U]{Status: r.Status, Message: r.Message, Errors: r.Errors}
}

// UpstreamError carries a non-2xx upstream answer through the service layer
// so handlers can relay status, message and field errors unchanged
type UpstreamError struct {
	Status  int
	Message string
	Errors  map[string][]string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned %d", e.Status)
	}
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Message)
}

// Unwrap exposes the taxonomy sentinel for errors.Is
func (e *UpstreamError) Unwrap() error {
	return Classify(e.Status)
}
