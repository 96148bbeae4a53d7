// Package client implements the request dispatcher of the management API
// client: it maps request-model values onto concrete HTTP calls and
// interprets the raw outcomes into the response model.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/confcloud-io/mapi-client/internal/constants"
	mapihttp "github.com/confcloud-io/mapi-client/internal/http"
	"github.com/confcloud-io/mapi-client/pkg/mapi"
)

// Client implements mapi.Client. It is long-lived and safe for concurrent
// use; the transport's concurrency bound and the authenticator are the only
// shared mutable state.
type Client struct {
	httpClient *mapihttp.Client
	logger     mapi.Logger
}

// New creates a dispatcher over the given transport.
func New(httpClient *mapihttp.Client, logger mapi.Logger) *Client {
	if logger == nil {
		logger = mapi.NopLogger{}
	}

	return &Client{httpClient: httpClient, logger: logger}
}

// Send implements mapi.Client. GetAll requests return a stream without
// touching the network; everything else executes exactly one call.
func (c *Client) Send(ctx context.Context, request mapi.Request) (*mapi.Response, error) {
	if request.Kind == mapi.RequestGetAll {
		return mapi.StreamResponse(c.newStream(request)), nil
	}

	httpReq, err := buildRequest(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(ctx, httpReq)
	if err != nil {
		return nil, err
	}

	return interpret(resp)
}

// buildRequest maps one request-model value onto method, path, query and
// body. Collection paths carry a trailing slash, matching the server's
// routing.
func buildRequest(request mapi.Request) (*mapihttp.Request, error) {
	base := request.API.BasePath()

	switch request.Kind {
	case mapi.RequestAPISchema:
		return &mapihttp.Request{Method: "GET", Path: base + "/"}, nil

	case mapi.RequestResourceSchema:
		return &mapihttp.Request{Method: "GET", Path: fmt.Sprintf("%s/%s/schema/", base, request.Resource)}, nil

	case mapi.RequestGet:
		return &mapihttp.Request{Method: "GET", Path: fmt.Sprintf("%s/%s/%s/", base, request.Resource, request.ObjectID)}, nil

	case mapi.RequestGetAll:
		pageSize := request.PageSize
		if pageSize <= 0 {
			pageSize = constants.DefaultPageSize
		}

		query := url.Values{}
		query.Set("limit", fmt.Sprintf("%d", pageSize))
		query.Set("offset", fmt.Sprintf("%d", request.Offset))

		for key, value := range request.Filters {
			query.Set(key, value)
		}

		return &mapihttp.Request{Method: "GET", Path: fmt.Sprintf("%s/%s/", base, request.Resource), Query: query}, nil

	case mapi.RequestCreate:
		return &mapihttp.Request{Method: "POST", Path: fmt.Sprintf("%s/%s/", base, request.Resource), Body: request.Body}, nil

	case mapi.RequestUpdate:
		return &mapihttp.Request{Method: "PATCH", Path: fmt.Sprintf("%s/%s/%s/", base, request.Resource, request.ObjectID), Body: request.Body}, nil

	case mapi.RequestDelete:
		return &mapihttp.Request{Method: "DELETE", Path: fmt.Sprintf("%s/%s/%s/", base, request.Resource, request.ObjectID)}, nil

	default:
		return nil, fmt.Errorf("building request: unsupported kind %q", request.Kind)
	}
}

// interpret classifies a raw 2xx outcome into the response model. Command
// invocations report their outcome in the body like any other content;
// callers inspect the returned document to distinguish command-level
// failure from success.
func interpret(resp *mapihttp.Response) (*mapi.Response, error) {
	if len(resp.Body) > 0 {
		var content any
		if err := json.Unmarshal(resp.Body, &content); err != nil {
			return nil, &mapi.DecodeError{Body: resp.Body, Cause: err}
		}

		return mapi.ContentResponse(content), nil
	}

	if location := resp.Headers.Get("Location"); location != "" {
		return mapi.LocationResponse(location), nil
	}

	return mapi.NoContentResponse(), nil
}

var _ mapi.Client = (*Client)(nil)
