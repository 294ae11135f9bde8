package engine

import "errors"

var (
	// ErrUnauthorized reports that the caller may not perform the
	// operation. It is raised before any network call.
	ErrUnauthorized = errors.New("not authorized for this operation")

	// ErrNotFound reports that the mutation target is absent from the
	// local view of the collection.
	ErrNotFound = errors.New("no such entity")

	// ErrSessionClosed reports that the session ended while an operation
	// was in flight; its results were discarded.
	ErrSessionClosed = errors.New("session closed")

	// ErrInvalidCredentials reports a failed login check.
	ErrInvalidCredentials = errors.New("invalid name or password")
)
