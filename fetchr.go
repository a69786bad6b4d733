// Package fetchr exposes client and image fetcher builders.
package fetchr

import (
	"image"

	"github.com/adamwoolhether/fetchr/client"
	"github.com/adamwoolhether/fetchr/client/fetch"
)

// NewClient instantiates a new *Client for baseHost with the provided options.
// If not specified, a fresh http.Client over http.DefaultTransport is used.
func NewClient(baseHost string, opts ...client.Option) (*client.Client, error) {
	return client.Build(baseHost, opts...)
}

// NewImageFetcher instantiates a cached image fetcher with the provided options.
func NewImageFetcher(opts ...fetch.Option) (*fetch.Fetcher[image.Image], error) {
	return fetch.NewImages(opts...)
}
