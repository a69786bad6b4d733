package fetch

import (
	"errors"
	"fmt"
)

// maxErrBodySize caps the amount of response body kept when
// building an error for an unexpected status code.
const maxErrBodySize = 4 << 10 // 4KB

var (
	// ErrInvalidURL is delivered when Fetch is called without a usable URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrDecodeFailed is delivered when the payload is not a valid resource.
	ErrDecodeFailed = errors.New("failed to decode image")
	// ErrResourceTooLarge is delivered when the payload exceeds the size limit.
	ErrResourceTooLarge = errors.New("resource too large")
	// ErrUnexpectedStatusCode is the sentinel error wrapped by [UnexpectedStatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrFetcherClosed is delivered by Fetch for a cache miss after [Fetcher.Close].
	ErrFetcherClosed = errors.New("fetcher closed")
)

// Error wraps a sentinel error with optional detail. The underlying
// failure, when there is one, is reachable through [errors.Is] and
// [errors.As] but kept out of the message.
type Error struct {
	Detail string
	Err    error

	cause error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}

	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.Err}
	}

	return []error{e.Err, e.cause}
}

// UnexpectedStatusError is delivered when the server answers outside
// the 2xx range.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}
