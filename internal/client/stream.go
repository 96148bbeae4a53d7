package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	mapihttp "github.com/confcloud-io/mapi-client/internal/http"
	"github.com/confcloud-io/mapi-client/pkg/mapi"
)

// pageMeta is the pagination block of a collection response.
type pageMeta struct {
	Limit      int     `json:"limit"`
	Next       *string `json:"next"`
	Offset     int     `json:"offset"`
	Previous   *string `json:"previous"`
	TotalCount int     `json:"total_count"`
}

// pageEnvelope is the server's list-response wrapper. It never escapes this
// package.
type pageEnvelope struct {
	Objects []any    `json:"objects"`
	Meta    pageMeta `json:"meta"`
}

// newStream wraps a GetAll request into a lazily-fetched stream. The first
// page is built from the request's own page size and offset; every later
// page follows the server-supplied next link verbatim, which already
// encodes the continuation offset. Each page fetch holds a concurrency
// permit only for its own network call, and authentication is re-applied
// per page by the transport.
func (c *Client) newStream(request mapi.Request) *mapi.Stream {
	first := true

	var nextLink string

	fetch := func(ctx context.Context) ([]any, bool, error) {
		var (
			httpReq *mapihttp.Request
			err     error
		)

		if first {
			first = false

			httpReq, err = buildRequest(request)
		} else {
			httpReq, err = requestForLink(nextLink)
		}

		if err != nil {
			return nil, false, err
		}

		resp, err := c.httpClient.Do(ctx, httpReq)
		if err != nil {
			return nil, false, err
		}

		var envelope pageEnvelope
		if err := json.Unmarshal(resp.Body, &envelope); err != nil {
			decodeErr := &mapi.DecodeError{Body: resp.Body, Cause: err}

			return nil, false, &mapi.APIError{
				Status:  resp.StatusCode,
				Message: decodeErr.Error(),
				Cause:   decodeErr,
			}
		}

		if envelope.Meta.Next != nil {
			nextLink = *envelope.Meta.Next

			return envelope.Objects, true, nil
		}

		return envelope.Objects, false, nil
	}

	return mapi.NewStream(request.Limit, fetch)
}

// requestForLink turns a server-relative next link into a concrete request.
func requestForLink(link string) (*mapihttp.Request, error) {
	parsed, err := url.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("parsing continuation link: %w", err)
	}

	return &mapihttp.Request{Method: "GET", Path: parsed.Path, Query: parsed.Query()}, nil
}
