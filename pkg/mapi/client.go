package mapi

import "context"

// Client dispatches requests against the management API. Implementations
// are safe for concurrent use; in-flight requests are bounded internally so
// callers may issue any number of concurrent Sends.
type Client interface {
	// Send executes one request. For GetAll requests the returned response
	// carries a Stream and no network call happens until its first Next.
	Send(ctx context.Context, request Request) (*Response, error)
}
