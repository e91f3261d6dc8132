package domain

import "errors"

// Error kinds surfaced by the core. Callers classify with errors.Is; the HTTP
// adapter maps each kind to a distinct status code.
var (
	// ErrValidation marks bad or missing required fields.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an absent session or user.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks an ownership mismatch.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState marks an operation against a session or profile in the
	// wrong state, e.g. sending to a completed consultation.
	ErrInvalidState = errors.New("invalid state")

	// ErrCapability marks an AI / upstream failure. It is never silently
	// substituted with a default response.
	ErrCapability = errors.New("capability failure")

	// ErrPersistence marks a repository failure, fatal to the current request.
	ErrPersistence = errors.New("persistence failure")
)
