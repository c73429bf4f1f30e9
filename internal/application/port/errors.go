package port

import "errors"

// Collaborator failures. Implementations wrap these with the collaborator's
// own message so callers can both branch on kind and show the reason.
var (
	// ErrNotFound is returned when a looked-up record does not exist
	ErrNotFound = errors.New("not found")

	// ErrNotConfigured is returned when a collaborator's connection settings are absent
	ErrNotConfigured = errors.New("collaborator not configured")

	// ErrUpstream is returned when a collaborator answered with a declared failure or was unreachable
	ErrUpstream = errors.New("upstream request failed")

	// ErrUpstreamMisconfigured is returned when a collaborator answered with a non-JSON page
	ErrUpstreamMisconfigured = errors.New("upstream returned a non-JSON response")

	// ErrFetchFailed is returned when a receipt file could not be retrieved
	ErrFetchFailed = errors.New("receipt fetch failed")

	// ErrStoreUnavailable is returned when the history store is unreachable or not configured
	ErrStoreUnavailable = errors.New("history store unavailable")
)
