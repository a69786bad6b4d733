// Package fetch downloads binary resources, images by default, and
// keeps decoded values in an in-memory cache.
//
// # Fetching
//
// [Fetcher.Fetch] never blocks on the network. A cache hit is delivered
// before Fetch returns; a miss starts a download and returns a token
// that can be passed to [Fetcher.Cancel]:
//
//	f, err := fetch.NewImages(fetch.WithTimeout(30 * time.Second))
//	token, ok := f.Fetch(ctx, u, func(img image.Image, err error) { ... })
//	if ok {
//		// later, if the image is no longer needed
//		f.Cancel(token)
//	}
//
// A cancelled download never invokes its callback. [Fetcher.Get] wraps
// Fetch for callers that prefer to block.
//
// Concurrent fetches of the same URL each issue their own request;
// whichever finishes last is what the cache holds. The default
// [MemoryCache] never evicts; supply another [Cache] with [WithCache]
// to bound memory.
package fetch
