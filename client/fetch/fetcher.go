package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Fetcher downloads resources by URL, caching decoded values in memory.
// Concurrent fetches of the same URL are not coalesced: each miss issues
// its own request and the last one to finish populates the cache.
type Fetcher[T any] struct {
	c        *http.Client
	decode   Decoder[T]
	logger   *slog.Logger
	tracer   trace.Tracer
	progress bool
	maxBytes int64

	// mu guards cache, running and closed together, so registering a token,
	// removing it and writing the cache never interleave.
	mu      sync.Mutex
	cache   Cache
	running map[uuid.UUID]context.CancelFunc
	closed  bool

	wg sync.WaitGroup
}

// New creates a Fetcher decoding payloads with decode.
func New[T any](decode Decoder[T], optFns ...Option) (*Fetcher[T], error) {
	if decode == nil {
		return nil, errors.New("decoder must not be nil")
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying fetch option: %w", err)
		}
	}

	f := &Fetcher[T]{
		c:        &http.Client{},
		decode:   decode,
		logger:   slog.Default(),
		tracer:   noop.NewTracerProvider().Tracer(""),
		progress: opts.progress,
		maxBytes: defaultMaxBytes,
		cache:    opts.cache,
		running:  make(map[uuid.UUID]context.CancelFunc),
	}

	if opts.client != nil {
		f.c = opts.client
	}
	if opts.timeout != nil {
		f.c.Timeout = *opts.timeout
	}
	if opts.logger != nil {
		f.logger = opts.logger
	}
	if opts.tracer != nil {
		f.tracer = opts.tracer
	}
	if opts.maxBytes > 0 {
		f.maxBytes = opts.maxBytes
	}
	if f.cache == nil {
		f.cache = NewMemoryCache()
	}

	return f, nil
}

// NewImages creates a Fetcher for GIF, JPEG, PNG, BMP and WebP images.
func NewImages(optFns ...Option) (*Fetcher[image.Image], error) {
	return New[image.Image](DecodeImage, optFns...)
}

// Fetch resolves u and hands the outcome to fn.
//
// On a cache hit fn runs before Fetch returns and ok is false: there is
// nothing to cancel. On a miss the download starts in the background
// and Fetch returns its token immediately with ok true. fn then runs
// exactly once from the download goroutine, unless the download is
// cancelled through [Fetcher.Cancel] or ctx, in which case it never runs.
func (f *Fetcher[T]) Fetch(ctx context.Context, u *url.URL, fn func(T, error)) (token uuid.UUID, ok bool) {
	var zero T

	if u == nil || u.Scheme == "" || u.Host == "" {
		fn(zero, ErrInvalidURL)
		return uuid.Nil, false
	}

	key := u.String()

	f.mu.Lock()
	if v, hit := f.cachedLocked(key); hit {
		f.mu.Unlock()
		f.logger.Debug("fetch cache hit", "url", key)
		fn(v, nil)
		return uuid.Nil, false
	}

	if f.closed {
		f.mu.Unlock()
		fn(zero, ErrFetcherClosed)
		return uuid.Nil, false
	}

	ctx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key, nil)
	if err != nil {
		f.mu.Unlock()
		cancel()
		fn(zero, &Error{Err: ErrInvalidURL, Detail: err.Error()})
		return uuid.Nil, false
	}

	token = uuid.New()
	f.running[token] = cancel
	f.wg.Add(1)
	f.mu.Unlock()

	go f.run(ctx, token, req, key, fn)

	return token, true
}

// Cancel abandons the download identified by token. It reports whether
// a download was cancelled; unknown or already resolved tokens are a no-op.
func (f *Fetcher[T]) Cancel(token uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	cancel, ok := f.running[token]
	if !ok {
		return false
	}

	cancel()
	delete(f.running, token)

	return true
}

// Cached returns the cached value for u, if any.
func (f *Fetcher[T]) Cached(u *url.URL) (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.cachedLocked(u.String())
}

// InFlight returns the number of unresolved downloads.
func (f *Fetcher[T]) InFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.running)
}

// Wait blocks until every started download has resolved.
func (f *Fetcher[T]) Wait() {
	f.wg.Wait()
}

// Close cancels all in-flight downloads and waits for them to resolve.
// Later calls to Fetch are still served from the cache; misses fail with
// [ErrFetcherClosed].
func (f *Fetcher[T]) Close() {
	f.mu.Lock()
	f.closed = true
	for token, cancel := range f.running {
		cancel()
		delete(f.running, token)
	}
	f.mu.Unlock()

	f.wg.Wait()
}

// cachedLocked must be called with mu held.
func (f *Fetcher[T]) cachedLocked(key string) (T, bool) {
	var zero T

	v, ok := f.cache.Get(key)
	if !ok {
		return zero, false
	}

	val, ok := v.(T)
	if !ok {
		return zero, false
	}

	return val, true
}

// run performs the download, then removes token and updates the cache
// under one lock before deciding whether fn may run.
func (f *Fetcher[T]) run(ctx context.Context, token uuid.UUID, req *http.Request, key string, fn func(T, error)) {
	defer f.wg.Done()

	v, err := f.download(ctx, req)

	f.mu.Lock()
	cancel, live := f.running[token]
	delete(f.running, token)
	if live && err == nil {
		f.cache.Set(key, v)
	}
	f.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if !live || errors.Is(err, context.Canceled) {
		f.logger.Debug("fetch abandoned", "url", key, "token", token.String())
		return
	}

	if err != nil {
		f.logger.Debug("fetch failed", "url", key, "error", err)
	}

	fn(v, err)
}

// download issues the request and decodes the bounded body.
func (f *Fetcher[T]) download(ctx context.Context, req *http.Request) (T, error) {
	var zero T

	ctx, span := f.tracer.Start(ctx, "fetch.resource",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("url.full", req.URL.String())),
	)
	defer span.End()

	v, err := f.exec(req.WithContext(ctx))
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return zero, err
	}

	return v, nil
}

func (f *Fetcher[T]) exec(req *http.Request) (T, error) {
	var zero T

	resp, err := f.c.Do(req)
	if err != nil {
		return zero, err
	}

	defer func() {
		if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrBodySize)); err != nil && !errors.Is(err, context.Canceled) {
			f.logger.Error("failed to discard unused body", "error", err)
		}
		if err := resp.Body.Close(); err != nil {
			f.logger.Error("failed to close response body", "error", err)
		}
	}()

	trace.SpanFromContext(req.Context()).SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		if err != nil {
			b = []byte("unable to read body")
		}

		return zero, &UnexpectedStatusError{
			StatusCode: resp.StatusCode,
			Body:       string(b),
			Err:        ErrUnexpectedStatusCode,
		}
	}

	var buf bytes.Buffer
	var writer io.Writer = &buf
	if f.progress {
		writer = &progressWriter{
			w:         writer,
			logger:    f.logger,
			url:       req.URL.String(),
			total:     resp.ContentLength,
			startTime: time.Now(),
		}
	}

	n, err := io.Copy(writer, io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return zero, err
	}

	if n > f.maxBytes {
		return zero, &Error{
			Err:    ErrResourceTooLarge,
			Detail: fmt.Sprintf("exceeds %d bytes", f.maxBytes),
		}
	}

	v, err := f.decode(buf.Bytes())
	if err != nil {
		f.logger.Debug("decode failed", "url", req.URL.String(), "error", err)
		return zero, &Error{Err: ErrDecodeFailed, cause: err}
	}

	return v, nil
}
