package domain

import "errors"

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
	ErrSessionRevoked  = errors.New("session has been revoked")
	ErrSessionStale    = errors.New("session changed while request was in flight")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Upstream errors, one per class of the error taxonomy
var (
	ErrUpstreamUnreachable = errors.New("upstream unreachable")
	ErrUpstreamServer      = errors.New("upstream server error")
	ErrUpstreamRejected    = errors.New("upstream rejected request")
	ErrMaxRetriesExceeded  = errors.New("max retries exceeded")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrForbidden           = errors.New("access denied")
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("resource not found")
	ErrMalformedResponse   = errors.New("malformed upstream response")
)

// Cache errors
var (
	ErrCacheMiss = errors.New("cache miss")
)

// Authorization errors
var (
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrInsufficientRole = errors.New("insufficient role permissions")
)
