package client

import (
	"maps"
	"net/http"
)

// Endpoint identifies a logical API path. The set is closed: only the
// constants below pass validation.
type Endpoint string

const (
	Fish  Endpoint = "test/fish"
	Birds Endpoint = "test/birds"
)

var endpoints = map[Endpoint]struct{}{
	Fish:  {},
	Birds: {},
}

// Path returns the endpoint as an absolute URL path.
func (e Endpoint) Path() string {
	return "/" + string(e)
}

// Known reports whether e belongs to the compiled set of endpoints.
func (e Endpoint) Known() bool {
	_, ok := endpoints[e]
	return ok
}

// Method is an HTTP verb accepted by [RequestSpec].
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
)

// RequestSpec describes one outbound request before execution.
//
// Headers are merged over [CommonHeaders], winning on identical keys.
// A non-nil Body is sent as a JSON object, even when empty.
type RequestSpec struct {
	Method   Method            `json:"method" validate:"required,oneof=GET POST PUT PATCH DELETE"`
	Endpoint Endpoint          `json:"endpoint" validate:"required,endpoint"`
	Headers  map[string]string `json:"headers"`
	Query    map[string]string `json:"query"`
	Body     map[string]any    `json:"body"`
}

// NoContent can be used as the result type for endpoints that answer
// without a body. Decoding is skipped and an empty body is not an error.
type NoContent struct{}

// Result carries either a decoded Value or an Err, never both.
type Result[T any] struct {
	Value T
	Err   error
}

// Unwrap returns the result as a value, error pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}

var commonHeaders = map[string]string{
	"Accept":       "application/json",
	"Content-Type": "application/json",
}

// CommonHeaders returns a copy of the headers applied to every request.
func CommonHeaders() map[string]string {
	return maps.Clone(commonHeaders)
}

// MergeHeaders layers extra over base. Keys are compared case-sensitively
// and extra wins on collision. Neither input is modified.
func MergeHeaders(base, extra map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(extra))
	maps.Copy(merged, base)
	maps.Copy(merged, extra)

	return merged
}
