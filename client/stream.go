package client

import (
	"context"
)

// Stream is a lazily evaluated request. Nothing is built or sent until
// [Stream.Subscribe] is called, and every subscription issues its own
// network task.
type Stream[T any] struct {
	c   *Client
	run func(ctx context.Context) (T, error)
}

// NewStream returns a Stream that executes spec on each subscription.
func NewStream[T any](c *Client, spec RequestSpec) *Stream[T] {
	return &Stream[T]{
		c: c,
		run: func(ctx context.Context) (T, error) {
			return Do[T](ctx, c, spec)
		},
	}
}

// Map derives a Stream whose value is fn applied to the value of s.
// fn only runs when s succeeds; its error fails the subscription.
func Map[T, U any](s *Stream[T], fn func(T) (U, error)) *Stream[U] {
	return &Stream[U]{
		c: s.c,
		run: func(ctx context.Context) (U, error) {
			v, err := s.run(ctx)
			if err != nil {
				var zero U
				return zero, err
			}

			return fn(v)
		},
	}
}

// Subscribe starts the request and returns immediately. Cancelling ctx
// or calling [Subscription.Cancel] abandons it.
func (s *Stream[T]) Subscribe(ctx context.Context) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription[T]{
		values: make(chan T, 1),
		done:   make(chan struct{}),
		cancel: cancel,
	}

	s.c.wg.Add(1)
	go func() {
		defer func() {
			cancel()
			close(sub.values)
			close(sub.done)
			s.c.wg.Done()
		}()

		v, err := s.run(ctx)
		switch {
		case isCancellation(err):
			sub.cancelled = true
			s.c.logger.Debug("subscription cancelled")
		case err != nil:
			sub.err = err
		default:
			sub.values <- v
		}
	}()

	return sub
}

// Sink subscribes and forwards the outcome to the given funcs from a
// background goroutine: receiveValue on success, then receiveCompletion
// with nil or the failure. Neither is called when the subscription is
// cancelled. Either func may be nil.
func (s *Stream[T]) Sink(ctx context.Context, receiveValue func(T), receiveCompletion func(error)) *Subscription[T] {
	sub := s.Subscribe(ctx)

	s.c.wg.Add(1)
	go func() {
		defer s.c.wg.Done()

		for v := range sub.Values() {
			if receiveValue != nil {
				receiveValue(v)
			}
		}

		if sub.Cancelled() || receiveCompletion == nil {
			return
		}
		receiveCompletion(sub.Err())
	}()

	return sub
}

// Subscription is a single in-flight or completed execution of a [Stream].
// It emits at most one value, then finishes with success, failure or
// cancellation. Cancellation is reported by Cancelled, never by Err.
type Subscription[T any] struct {
	values    chan T
	done      chan struct{}
	err       error
	cancelled bool
	cancel    context.CancelFunc
}

// Values returns a channel carrying the decoded value on success.
// It is closed when the subscription finishes.
func (s *Subscription[T]) Values() <-chan T { return s.values }

// Done returns a channel that is closed when the subscription finishes.
func (s *Subscription[T]) Done() <-chan struct{} { return s.done }

// Err blocks until the subscription finishes and returns its failure.
// It is nil on success and on cancellation.
func (s *Subscription[T]) Err() error {
	<-s.done
	return s.err
}

// Cancelled blocks until the subscription finishes and reports whether
// it ended because it was cancelled.
func (s *Subscription[T]) Cancelled() bool {
	<-s.done
	return s.cancelled
}

// Cancel abandons the subscription. It has no effect once finished.
func (s *Subscription[T]) Cancel() {
	s.cancel()
}
