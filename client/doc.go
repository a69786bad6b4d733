// Package client provides a typed JSON request pipeline built on
// [net/http].
//
// # Building a Client
//
// Use [Build] to create a [Client] for a base host with functional options:
//
//	c, err := client.Build("api.example.com",
//		client.WithTimeout(10 * time.Second),
//		client.WithUserAgent("myapp/1.0"),
//	)
//
// # Describing Requests
//
// A [RequestSpec] names the method, one of the known [Endpoint] values,
// and optional headers, query parameters and JSON body fields:
//
//	spec := client.RequestSpec{
//		Method:   client.MethodGet,
//		Endpoint: client.Birds,
//		Query:    map[string]string{"colour": "red"},
//	}
//
// Every request carries [CommonHeaders]; headers on the spec win on
// identical keys.
//
// # Executing Requests
//
// The same spec can be delivered three ways. [Do] blocks:
//
//	birds, err := client.Do[[]Bird](ctx, c, spec)
//
// [Execute] returns immediately and invokes a callback, unless the
// request is cancelled:
//
//	cancel := client.Execute(ctx, c, spec, func(r client.Result[[]Bird]) { ... })
//
// [NewStream] returns a lazy [Stream]; each [Stream.Subscribe] sends one
// request, and streams compose with [Map]:
//
//	names := client.Map(client.NewStream[[]Bird](c, spec), birdNames)
//	sub := names.Subscribe(ctx)
//	for v := range sub.Values() { ... }
//	if err := sub.Err(); err != nil { ... }
//
// # Errors
//
// Failures are *[Error] values wrapping one of [ErrInvalidURL],
// [ErrRequestFailed], [ErrInvalidResponse], [ErrDecodingFailed] or
// [ErrNoData]. Any status outside 200-299 is a request failure.
// Cancellation is never reported as an *Error.
//
// For cached image downloads see the
// [github.com/adamwoolhether/fetchr/client/fetch] package.
package client
