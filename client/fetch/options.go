package fetch

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// defaultMaxBytes bounds a single payload unless overridden by WithMaxBytes.
const defaultMaxBytes = 32 << 20 // 32MB

// Option defines optional settings for a [Fetcher].
type Option func(*options) error

type options struct {
	client   *http.Client
	timeout  *time.Duration
	logger   *slog.Logger
	tracer   trace.Tracer
	cache    Cache
	progress bool
	maxBytes int64
}

// WithClient replaces the default [http.Client] used for downloads.
func WithClient(hc *http.Client) Option {
	return func(opts *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		opts.client = hc
		return nil
	}
}

// WithTimeout bounds each download, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(opts *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		opts.timeout = &d
		return nil
	}
}

// WithLogger injects a custom [slog.Logger].
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		opts.logger = logger
		return nil
	}
}

// WithTracer records a span for every download.
func WithTracer(tracer trace.Tracer) Option {
	return func(opts *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		opts.tracer = tracer
		return nil
	}
}

// WithCache replaces the default unbounded [MemoryCache], e.g. with
// one that evicts.
func WithCache(c Cache) Option {
	return func(opts *options) error {
		if c == nil {
			return errors.New("cache must not be nil")
		}
		opts.cache = c
		return nil
	}
}

// WithProgress enables periodic download progress logging.
func WithProgress() Option {
	return func(opts *options) error {
		opts.progress = true
		return nil
	}
}

// WithMaxBytes caps the payload size accepted for a single resource.
func WithMaxBytes(n int64) Option {
	return func(opts *options) error {
		if n <= 0 {
			return errors.New("max bytes must be greater than zero")
		}
		opts.maxBytes = n
		return nil
	}
}
