package fetch

import (
	"context"
	"net/url"
)

// Get fetches u and blocks until it resolves. A cache hit returns without
// a request, even when ctx is already done. If ctx is cancelled before a
// download resolves, the download is cancelled and ctx's error is returned.
func (f *Fetcher[T]) Get(ctx context.Context, u *url.URL) (T, error) {
	type outcome struct {
		v   T
		err error
	}
	results := make(chan outcome, 1)

	token, ok := f.Fetch(ctx, u, func(v T, err error) {
		results <- outcome{v: v, err: err}
	})

	select {
	case res := <-results:
		return res.v, res.err
	case <-ctx.Done():
		// A cache hit is delivered before Fetch returns, so it wins
		// over a context that was already done.
		select {
		case res := <-results:
			return res.v, res.err
		default:
		}
		if ok {
			f.Cancel(token)
		}
		var zero T
		return zero, ctx.Err()
	}
}
