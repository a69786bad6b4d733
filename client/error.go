package client

import (
	"errors"
	"fmt"
)

// maxErrBodySize caps the amount of response body read when
// building an error for an unexpected status code. This prevents
// unbounded memory usage when a large response arrives with a
// wrong status.
const maxErrBodySize = 4 << 10 // 4KB

var (
	// ErrInvalidURL is returned when the request target cannot be composed
	// into an absolute URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrRequestFailed covers transport failures, unencodable bodies,
	// invalid specs and responses outside the 2xx range.
	ErrRequestFailed = errors.New("request failed")
	// ErrInvalidResponse is returned when no HTTP response metadata is available.
	ErrInvalidResponse = errors.New("invalid response")
	// ErrDecodingFailed is returned when the body can't be decoded into the expected type.
	ErrDecodingFailed = errors.New("decoding failed")
	// ErrNoData is returned when the server answers without a body.
	ErrNoData = errors.New("no data received from the server")
)

// Error is the classified failure of a request. Err is always one of
// the package sentinels, so callers can match with [errors.Is].
type Error struct {
	Err        error
	Reason     string
	StatusCode int
	Body       string

	cause error
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return e.Err.Error()
	}

	return fmt.Sprintf("%v: %s", e.Err, e.Reason)
}

func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.Err}
	}

	return []error{e.Err, e.cause}
}

func newError(sentinel error, reason string) *Error {
	return &Error{Err: sentinel, Reason: reason}
}

func requestFailed(reason string, cause error) *Error {
	return &Error{Err: ErrRequestFailed, Reason: reason, cause: cause}
}
