package client

import (
	"context"
)

// Do builds and executes spec, blocking until the body is decoded into T.
// A caller cancelling ctx gets back an error satisfying [IsCancellation];
// every other failure is an *[Error].
func Do[T any](ctx context.Context, c *Client, spec RequestSpec) (T, error) {
	req, err := c.BuildRequest(ctx, spec)
	if err != nil {
		var zero T
		return zero, err
	}

	return perform[T](c, req, spec.Endpoint)
}

// Execute starts spec in the background and returns once the request
// has been submitted. fn receives exactly one Result, unless the request
// is cancelled, in which case fn is never called.
//
// Build failures such as [ErrInvalidURL] are delivered to fn before
// Execute returns, and no network task is started.
//
// The returned func cancels the request. It's safe to call at any time,
// including after fn has run.
func Execute[T any](ctx context.Context, c *Client, spec RequestSpec, fn func(Result[T])) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)

	req, err := c.BuildRequest(ctx, spec)
	if err != nil {
		cancel()
		fn(Result[T]{Err: err})
		return cancel
	}

	c.wg.Add(1)
	go func() {
		defer func() {
			cancel()
			c.wg.Done()
		}()

		v, err := perform[T](c, req, spec.Endpoint)
		if isCancellation(err) {
			c.logger.Debug("request abandoned", "method", req.Method, "path", req.URL.Path)
			return
		}

		fn(Result[T]{Value: v, Err: err})
	}()

	return cancel
}
