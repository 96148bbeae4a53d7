package mapi

import (
	"context"
	"errors"
	"math"
)

// PageFunc fetches one page of objects. It returns the page's objects and
// whether another page is available. Implementations perform one network
// call per invocation and hold no resources between calls, so abandoning a
// Stream mid-iteration leaks nothing.
type PageFunc func(ctx context.Context) (objects []any, more bool, err error)

// Stream is a forward-only, lazily-fetched sequence of JSON objects from a
// paginated collection. It is not restartable: once exhausted, a new request
// must be issued to re-enumerate. A Stream is not safe for concurrent use.
type Stream struct {
	fetch     PageFunc
	buf       []any
	remaining int
	done      bool
	failed    error
}

// NewStream wraps a page fetcher into a stream yielding at most limit
// objects. A limit of 0 means unbounded.
func NewStream(limit int, fetch PageFunc) *Stream {
	if limit <= 0 {
		limit = math.MaxInt
	}

	return &Stream{fetch: fetch, remaining: limit}
}

// Next returns the next object in the sequence. It returns ErrNoMoreItems
// once the sequence is exhausted or the caller-supplied limit is reached.
// Any other error is terminal: subsequent calls return the same error.
func (s *Stream) Next(ctx context.Context) (any, error) {
	if s.failed != nil {
		return nil, s.failed
	}

	if s.remaining == 0 {
		return nil, ErrNoMoreItems
	}

	for len(s.buf) == 0 {
		if s.done {
			return nil, ErrNoMoreItems
		}

		objects, more, err := s.fetch(ctx)
		if err != nil {
			s.failed = err

			return nil, err
		}

		s.buf = objects
		s.done = !more
	}

	obj := s.buf[0]
	s.buf = s.buf[1:]
	s.remaining--

	return obj, nil
}

// Collect drains the stream into a slice. It stops at the stream's limit or
// at the end of the collection, whichever comes first.
func (s *Stream) Collect(ctx context.Context) ([]any, error) {
	var objects []any

	for {
		obj, err := s.Next(ctx)
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				return objects, nil
			}

			return objects, err
		}

		objects = append(objects, obj)
	}
}
