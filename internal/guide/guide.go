// Package guide drives the bird and fish catalogue through the request
// client and the image fetcher.
package guide

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/url"
	"sync"

	"github.com/adamwoolhether/fetchr/client"
	"github.com/adamwoolhether/fetchr/client/fetch"
)

// Bird is a catalogue entry served by the birds endpoint.
type Bird struct {
	Name   string `json:"name"`
	Colour string `json:"colour"`
}

// Fish is a catalogue entry served by the fish endpoint.
type Fish struct {
	Name  string `json:"name"`
	Water string `json:"water"`
}

// ErrImageCancelled is returned by Image when the fetch was cancelled
// before it resolved.
var ErrImageCancelled = errors.New("image fetch cancelled")

// Catalogue is the state assembled by a Service. It is safe to read once
// the method that populated it has returned.
type Catalogue struct {
	mu    sync.Mutex
	birds []Bird
	fish  []Fish
	image image.Image
	errs  []error

	sealed bool
}

// Birds returns the loaded birds.
func (c *Catalogue) Birds() []Bird {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.birds
}

// Fish returns the loaded fish.
func (c *Catalogue) Fish() []Fish {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fish
}

// Image returns the loaded image, if any.
func (c *Catalogue) Image() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.image
}

// Err joins every failure recorded while loading.
func (c *Catalogue) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return errors.Join(c.errs...)
}

func (c *Catalogue) fail(err error) {
	c.set(func() { c.errs = append(c.errs, err) })
}

// set applies fn unless the catalogue was already handed back to the
// caller, so callbacks racing a cancellation cannot change it afterwards.
func (c *Catalogue) set(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sealed {
		return
	}
	fn()
}

func (c *Catalogue) seal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sealed = true
}

// Service loads catalogue data.
type Service struct {
	client *client.Client
	images *fetch.Fetcher[image.Image]
	logger *slog.Logger
}

// New constructs a Service. images may be nil when no artwork is needed.
func New(c *client.Client, images *fetch.Fetcher[image.Image], logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		client: c,
		images: images,
		logger: logger,
	}
}

// Load fetches birds as a stream and fish through a callback, then, when
// imageURL is set, the artwork. It blocks until its own requests resolved
// or ctx is cancelled; other work on the shared client is not waited for.
// Failures are collected on the returned Catalogue; a cancelled load
// yields whatever had resolved before cancellation.
func (s *Service) Load(ctx context.Context, imageURL string) *Catalogue {
	var cat Catalogue
	defer cat.seal()

	birds := client.NewStream[[]Bird](s.client, client.RequestSpec{
		Method:   client.MethodGet,
		Endpoint: client.Birds,
	}).Subscribe(ctx)

	fishDone := make(chan struct{})
	cancelFish := client.Execute(ctx, s.client, client.RequestSpec{
		Method:   client.MethodGet,
		Endpoint: client.Fish,
	}, func(r client.Result[[]Fish]) {
		defer close(fishDone)

		v, err := r.Unwrap()
		if err != nil {
			s.logger.Error("loading fish", "error", err)
			cat.fail(fmt.Errorf("fish: %w", err))
			return
		}

		cat.set(func() { cat.fish = v })
	})
	defer cancelFish()

	if imageURL != "" && s.images != nil {
		img, err := s.Image(ctx, imageURL)
		switch {
		case err == nil:
			cat.set(func() { cat.image = img })
		case !errors.Is(err, ErrImageCancelled):
			s.logger.Error("loading image", "url", imageURL, "error", err)
			cat.fail(fmt.Errorf("image: %w", err))
		}
	}

	for v := range birds.Values() {
		cat.set(func() { cat.birds = v })
	}
	if err := birds.Err(); err != nil {
		s.logger.Error("loading birds", "error", err)
		cat.fail(fmt.Errorf("birds: %w", err))
	}

	// A cancelled Execute never calls back, so ctx bounds the wait.
	select {
	case <-fishDone:
	case <-ctx.Done():
	}

	return &cat
}

// Image fetches rawURL through the image fetcher, serving cache hits
// without a request. Cancelling ctx cancels the fetch.
func (s *Service) Image(ctx context.Context, rawURL string) (image.Image, error) {
	if s.images == nil {
		return nil, errors.New("no image fetcher configured")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing image url: %w", err)
	}

	img, err := s.images.Get(ctx, u)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrImageCancelled
		}
		return nil, err
	}

	return img, nil
}
