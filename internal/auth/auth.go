// Package auth provides the per-request authentication strategies of the
// management API client: none, HTTP Basic, and OAuth2 client-credentials
// with a signed JWT assertion.
package auth

import (
	"context"
	"net/http"

	"github.com/confcloud-io/mapi-client/pkg/mapi"
)

// Authenticator decorates an outgoing request with credentials. It is
// applied freshly to every request, including pagination follow-ups, so a
// token refreshed mid-stream is picked up on the next page.
type Authenticator interface {
	Authenticate(ctx context.Context, req *http.Request) error
}

// NoAuth leaves requests untouched.
type NoAuth struct{}

// Authenticate implements Authenticator.
func (NoAuth) Authenticate(context.Context, *http.Request) error {
	return nil
}

// Basic attaches a fixed username/password pair to every request.
type Basic struct {
	username string
	password mapi.Secret
}

// NewBasic creates a Basic authenticator.
func NewBasic(username string, password mapi.Secret) *Basic {
	return &Basic{username: username, password: password}
}

// Authenticate implements Authenticator.
func (b *Basic) Authenticate(_ context.Context, req *http.Request) error {
	req.SetBasicAuth(b.username, b.password.Value())

	return nil
}
