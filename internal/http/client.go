// Package http wraps the HTTP transport for the management API: it builds
// concrete requests, applies authentication, bounds concurrent in-flight
// calls, and classifies failures into the mapi error taxonomy.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/semaphore"

	"github.com/confcloud-io/mapi-client/internal/auth"
	"github.com/confcloud-io/mapi-client/internal/constants"
	"github.com/confcloud-io/mapi-client/pkg/mapi"
)

// Request is a concrete HTTP request to the management node. Query values
// may carry sensitive filter arguments and are never logged.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response is the raw outcome of a successful exchange (2xx status).
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client executes requests against one management node. It is safe for
// concurrent use; a weighted semaphore caps simultaneous in-flight requests
// regardless of how many logical calls are active.
type Client struct {
	baseURL    string
	httpClient *http.Client
	authn      auth.Authenticator
	sem        *semaphore.Weighted
	logger     mapi.Logger
	userAgent  string

	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	timeout      time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the diagnostic sink.
func WithLogger(logger mapi.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig enables transport-level retries. The client itself never
// retries; this only tunes the underlying transport.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryMax = retryMax
		c.retryWaitMin = waitMin
		c.retryWaitMax = waitMax
	}
}

// WithTimeout bounds each network call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the underlying transport entirely. Retry and
// timeout options are ignored when set.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a transport for the given base URL. authn may be nil
// for unauthenticated access.
func NewClient(baseURL string, authn auth.Authenticator, opts ...Option) *Client {
	if authn == nil {
		authn = auth.NoAuth{}
	}

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		authn:        authn,
		sem:          semaphore.NewWeighted(constants.MaxConcurrentRequests),
		logger:       mapi.NopLogger{},
		retryWaitMin: constants.DefaultRetryWaitMin,
		retryWaitMax: constants.DefaultRetryWaitMax,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		client.httpClient = client.buildTransport()
	}

	return client
}

// buildTransport assembles the retryablehttp-backed transport. Retries
// default to off; WithRetryConfig opts in to what the transport natively
// offers.
func (c *Client) buildTransport() *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = c.retryMax
	retryClient.RetryWaitMin = c.retryWaitMin
	retryClient.RetryWaitMax = c.retryWaitMax
	retryClient.Logger = nil

	httpClient := retryClient.StandardClient()
	httpClient.Timeout = c.timeout

	return httpClient
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do executes one request. It acquires a concurrency permit for the
// duration of the network call, applies authentication, and classifies the
// outcome: transport failures become *mapi.TransportError, non-2xx statuses
// become *mapi.APIError with a best-effort message. A 2xx response is
// returned with its raw body; interpretation is up to the caller.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := c.buildHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for request slot: %w", err)
	}
	defer c.sem.Release(1)

	// Query parameters are excluded from log lines since filter values may
	// be sensitive.
	c.logger.Trace("--> "+req.Method+" "+httpReq.URL.Path, nil)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &mapi.TransportError{Cause: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &mapi.TransportError{Status: httpResp.StatusCode, Cause: err}
	}

	c.logger.Trace("<-- "+req.Method+" "+httpReq.URL.Path, map[string]interface{}{
		"status": httpResp.StatusCode,
	})

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, mapi.NewAPIErrorFromBody(httpResp.StatusCode, body)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}, nil
}

// buildHTTPRequest assembles and authenticates the concrete request.
func (c *Client) buildHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader

	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	// Authentication is applied fresh on every call, so a token refreshed
	// mid-pagination is picked up by the next page.
	if err := c.authn.Authenticate(ctx, httpReq); err != nil {
		return nil, err
	}

	return httpReq, nil
}
