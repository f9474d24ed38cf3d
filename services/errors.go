package services

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist or
	// is not owned by the acting user.
	ErrNotFound = errors.New("resource not found")

	// ErrBadUpstreamResponse is returned when the model produced output
	// that cannot be parsed into the expected structure.
	ErrBadUpstreamResponse = errors.New("model returned an unparseable response")

	// ErrUpstreamUnavailable is returned when the model call itself failed.
	ErrUpstreamUnavailable = errors.New("model service unavailable")
)
