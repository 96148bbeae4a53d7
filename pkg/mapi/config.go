package mapi

import "time"

// Config describes how to reach and authenticate against one management
// node.
//
// # Authentication precedence
//
// The concrete client (see pkg/mapiclient) applies the following order:
//  1. ClientID + ClientKey: OAuth2 client-credentials with a signed ES256
//     JWT assertion against TokenEndpoint.
//  2. Username + Password: HTTP Basic auth on every request.
//  3. No credentials: requests are sent without authentication.
type Config struct {
	// Address is the management node address. A scheme-less address gets
	// "https://" prepended; plain http is accepted with a warning.
	Address string

	// Username and Password select HTTP Basic auth.
	Username string
	Password Secret

	// ClientID, ClientKey (an EC PEM private key) and TokenEndpoint select
	// the OAuth2 client-credentials flow.
	ClientID      string
	ClientKey     Secret
	TokenEndpoint string

	// AccessToken optionally seeds the OAuth2 token cache, avoiding an
	// initial token round-trip when a previously persisted token is still
	// valid.
	AccessToken   Secret
	TokenExpires  time.Time
	TokenRefresh  func(token Secret, expiresAt time.Time)

	// Logger receives client diagnostics. Defaults to NopLogger.
	Logger Logger

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// RetryMax enables transport-level retries when > 0. The client itself
	// never retries; this only tunes what the underlying transport offers.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// HTTPTimeout bounds each network call. Zero selects the default of 30
	// seconds; negative disables the client-side timeout, leaving per-call
	// control to context deadlines.
	HTTPTimeout time.Duration
}
