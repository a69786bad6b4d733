package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adamwoolhether/fetchr/client/fetch"
)

func TestFetcher_Get(t *testing.T) {
	u, hits := imageServer(t, pngBytes(t, 5))

	f, err := fetch.NewImages()
	if err != nil {
		t.Fatalf("creating fetcher: %v", err)
	}
	t.Cleanup(f.Close)

	for range 2 {
		img, err := f.Get(t.Context(), u)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := img.Bounds().Dx(); got != 5 {
			t.Errorf("expected width 5, got %d", got)
		}
	}

	if n := hits.Load(); n != 1 {
		t.Errorf("expected a single network request, got %d", n)
	}
}

func TestFetcher_GetCancelled(t *testing.T) {
	started := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	t.Cleanup(ts.Close)

	f, err := fetch.NewImages()
	if err != nil {
		t.Fatalf("creating fetcher: %v", err)
	}
	t.Cleanup(f.Close)

	ctx, cancel := context.WithCancel(t.Context())
	go func() {
		<-started
		cancel()
	}()

	if _, err := f.Get(ctx, mustParse(t, ts.URL+"/slow.png")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}

	f.Wait()
	if n := f.InFlight(); n != 0 {
		t.Errorf("expected no downloads in flight, got %d", n)
	}
}

func TestFetcher_GetCachedWithDoneContext(t *testing.T) {
	u, hits := imageServer(t, pngBytes(t, 6))

	f, err := fetch.NewImages()
	if err != nil {
		t.Fatalf("creating fetcher: %v", err)
	}
	t.Cleanup(f.Close)

	if _, err := f.Get(t.Context(), u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	// Both select cases are ready on every iteration; the cached value must win.
	for range 100 {
		img, err := f.Get(ctx, u)
		if err != nil {
			t.Fatalf("expected cached image, got: %v", err)
		}
		if got := img.Bounds().Dx(); got != 6 {
			t.Fatalf("expected width 6, got %d", got)
		}
	}

	if n := hits.Load(); n != 1 {
		t.Errorf("expected a single network request, got %d", n)
	}
}
