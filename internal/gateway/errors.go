package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound reports that a mutation target does not exist on the
// remote store. StatusError matches it for 404 responses.
var ErrNotFound = errors.New("entity not found")

// NetworkError indicates the remote store could not be reached at all:
// connection failure, DNS failure, or a timed-out request.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: remote unreachable: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusError indicates the remote store answered with a non-2xx status.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: remote rejected request: status %d", e.Op, e.Code)
}

// Is lets errors.Is(err, ErrNotFound) match a 404 response.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// DecodeError indicates the remote store answered 2xx but the body could
// not be decoded.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsUnreachable reports whether the error is a transport-level failure,
// as opposed to a rejection or malformed answer from a reachable server.
func IsUnreachable(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
