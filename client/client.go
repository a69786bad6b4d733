// Package client exposes a typed request pipeline for
// executing JSON requests against a remote API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultScheme is used to compose every request URL unless
// overridden with [WithScheme].
const DefaultScheme = "https"

// execFn represents a func to operate on a response.
type execFn func(response *http.Response) error

// Client wraps the std-lib *http.Client and a fixed base host.
// It sets a default *http.Client and *http.Transport, which
// can be customized via optional funcs.
type Client struct {
	c       *http.Client
	host    string
	scheme  string
	logger  *slog.Logger
	tracer  trace.Tracer
	jsonNum bool

	wg sync.WaitGroup
}

// Build instantiates a *Client targeting baseHost. The host is not
// checked here; a malformed host surfaces as [ErrInvalidURL] on the
// first request.
func Build(baseHost string, optFns ...Option) (*Client, error) {
	client := &Client{
		c:      &http.Client{},
		host:   baseHost,
		scheme: DefaultScheme,
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer(""),
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.client != nil {
		client.c = opts.client
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	if opts.scheme != "" {
		client.scheme = opts.scheme
	}

	client.jsonNum = opts.useJSONNumber

	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	client.c.Transport = responseGuard{base: transport}

	return client, nil
}

// Host returns the base host every request is sent to.
func (c *Client) Host() string {
	return c.host
}

// Wait blocks until every request started with [Execute] or a
// [Stream] subscription has delivered its outcome.
func (c *Client) Wait() {
	c.wg.Wait()
}

// BuildRequest translates spec into an *http.Request bound to ctx.
// No network activity happens here.
func (c *Client) BuildRequest(ctx context.Context, spec RequestSpec) (*http.Request, error) {
	if err := Validate(spec); err != nil {
		var fields FieldErrors
		if errors.As(err, &fields) && fields.Has("endpoint") {
			return nil, &Error{Err: ErrInvalidURL, Reason: err.Error(), cause: err}
		}

		return nil, requestFailed(err.Error(), err)
	}

	reqURL, err := URL(c.scheme, c.host, spec.Endpoint.Path(), WithQueryStrings(spec.Query))
	if err != nil {
		return nil, err
	}

	var body io.Reader = http.NoBody
	if spec.Body != nil {
		b, err := json.Marshal(spec.Body)
		if err != nil {
			return nil, requestFailed("failed to encode body", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, string(spec.Method), reqURL.String(), body)
	if err != nil {
		return nil, requestFailed(fmt.Sprintf("instantiating request: %v", err), err)
	}

	headers := MergeHeaders(commonHeaders, spec.Headers)
	for _, k := range slices.Sorted(maps.Keys(headers)) {
		req.Header.Add(k, headers[k])
	}

	return req, nil
}

// exec runs the request and injected function on success after validating the status code.
func (c *Client) exec(req *http.Request, fn execFn) error {
	start := time.Now()

	resp, err := c.c.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("exec http do: %w", err)
		}
		if errors.Is(err, ErrInvalidResponse) {
			return newError(ErrInvalidResponse, "")
		}

		return requestFailed(err.Error(), err)
	}
	if resp == nil {
		return newError(ErrInvalidResponse, "")
	}

	discardBody := true
	defer func() {
		if discardBody {
			if _, err = io.Copy(io.Discard, resp.Body); err != nil {
				c.logger.Error("failed to discard unused body", "error", err)
			}
		}
		if err = resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	c.logger.Debug("request completed", "method", req.Method, "path", req.URL.Path, "statusCode", resp.StatusCode, "since", time.Since(start).String())

	trace.SpanFromContext(req.Context()).SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		if err != nil {
			b = []byte("unable to read body")
		}

		return &Error{
			Err:        ErrRequestFailed,
			Reason:     fmt.Sprintf("failure - %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			Body:       string(b),
		}
	}

	if err := fn(resp); err != nil {
		discardBody = false
		return err
	}

	return nil
}

// perform executes an already built request and decodes the body into T.
// It is the single delivery-agnostic core behind Do, Execute and Stream.
func perform[T any](c *Client, req *http.Request, endpoint Endpoint) (T, error) {
	ctx, span := c.tracer.Start(req.Context(), "client.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("endpoint", string(endpoint)),
			attribute.String("url.full", req.URL.String()),
		),
	)
	defer span.End()

	req = req.WithContext(ctx)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	var dest T
	if err := c.exec(req, decode(&dest, c.jsonNum)); err != nil {
		if !isCancellation(err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		var zero T
		return zero, err
	}

	return dest, nil
}

// decode reads the whole body and unmarshals it into dest.
func decode[T any](dest *T, useNumber bool) execFn {
	return func(resp *http.Response) error {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return fmt.Errorf("reading body: %w", err)
			}

			return requestFailed(err.Error(), err)
		}

		if _, ok := any(dest).(*NoContent); ok {
			return nil
		}

		if len(b) == 0 {
			return newError(ErrNoData, "")
		}

		d := json.NewDecoder(bytes.NewReader(b))
		if useNumber {
			d.UseNumber()
		}

		if err := d.Decode(dest); err != nil {
			return &Error{Err: ErrDecodingFailed, Reason: err.Error(), cause: err}
		}

		return nil
	}
}

// isCancellation reports whether err stems from the caller abandoning the request.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsCancellation reports whether err means the request was abandoned by
// its caller rather than failed. Only [Do] can return such an error.
func IsCancellation(err error) bool {
	return isCancellation(err)
}

// URL composes scheme, host and path into an absolute URL.
// It fails with [ErrInvalidURL] when the result lacks a scheme, host or path,
// or when host does not survive the round trip unchanged.
func URL(scheme, host, path string, opts ...URLOption) (*url.URL, error) {
	var settings urlOpts
	for _, opt := range opts {
		opt(&settings)
	}

	if scheme == "" || host == "" || path == "" {
		return nil, newError(ErrInvalidURL, fmt.Sprintf("scheme[%s] host[%s] path[%s] must not be empty", scheme, host, path))
	}

	endpoint := url.URL{
		Scheme: scheme,
		Host:   host,
		Path:   path,
	}

	if len(settings.queryStrings) > 0 {
		queryParams := url.Values{}
		for k, v := range settings.queryStrings {
			queryParams.Add(k, v)
		}

		endpoint.RawQuery = queryParams.Encode()
	}

	parsed, err := url.Parse(endpoint.String())
	if err != nil {
		return nil, &Error{Err: ErrInvalidURL, Reason: err.Error(), cause: err}
	}
	if parsed.Scheme == "" || parsed.Host == "" || parsed.Path == "" || parsed.Host != host {
		return nil, newError(ErrInvalidURL, endpoint.String())
	}

	return parsed, nil
}

// URLOption is a functional option for [URL].
type URLOption func(options *urlOpts)

type urlOpts struct {
	queryStrings map[string]string
}

// WithQueryStrings appends query parameters to the URL.
// Parameters are encoded in key order.
func WithQueryStrings(queryKV map[string]string) URLOption {
	return func(opts *urlOpts) {
		opts.queryStrings = queryKV
	}
}
