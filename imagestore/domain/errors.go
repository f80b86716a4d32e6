package domain

import "errors"

// Every failure that crosses the store boundary wraps exactly one of these
// kinds, so callers can map them to a status code without inspecting the
// provider's error text.
var (
	// ErrBadRequest marks invalid input; the caller's fault, not retryable.
	ErrBadRequest = errors.New("bad request")

	// ErrNotFound marks an identifier that does not resolve to a stored file.
	ErrNotFound = errors.New("image not found")

	// ErrUploadFailed marks a remote write the repository rejected.
	ErrUploadFailed = errors.New("upload failed")

	// ErrTransientFetch marks a network-level read failure, safe to retry.
	ErrTransientFetch = errors.New("transient fetch failure")

	// ErrMisconfigured marks missing required configuration; fatal at startup.
	ErrMisconfigured = errors.New("missing required configuration")
)
