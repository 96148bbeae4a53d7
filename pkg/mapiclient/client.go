// Package mapiclient provides the entry point for constructing a management
// API client that implements the mapi.Client interface.
package mapiclient

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/confcloud-io/mapi-client/internal/auth"
	"github.com/confcloud-io/mapi-client/internal/client"
	"github.com/confcloud-io/mapi-client/internal/constants"
	mapihttp "github.com/confcloud-io/mapi-client/internal/http"
	"github.com/confcloud-io/mapi-client/pkg/mapi"
)

// New builds a client from config. Credential precedence: OAuth2
// (ClientID + ClientKey) over Basic (Username + Password) over
// unauthenticated.
func New(config *mapi.Config) (mapi.Client, error) {
	if config == nil || config.Address == "" {
		return nil, mapi.ErrAddressRequired
	}

	logger := config.Logger
	if logger == nil {
		logger = mapi.NopLogger{}
	}

	baseURL := normalizeAddress(config.Address, logger)

	authn, err := buildAuthenticator(config, logger)
	if err != nil {
		return nil, err
	}

	opts := []mapihttp.Option{mapihttp.WithLogger(logger)}

	if config.UserAgent != "" {
		opts = append(opts, mapihttp.WithUserAgent(config.UserAgent))
	}

	timeout := config.HTTPTimeout
	if timeout == 0 {
		timeout = constants.DefaultHTTPTimeout
	}

	opts = append(opts, mapihttp.WithTimeout(timeout))

	if config.RetryMax > 0 {
		opts = append(opts, mapihttp.WithRetryConfig(config.RetryMax, config.RetryWaitMin, config.RetryWaitMax))
	}

	httpClient := mapihttp.NewClient(baseURL, authn, opts...)

	return client.New(httpClient, logger), nil
}

// normalizeAddress defaults scheme-less addresses to https and strips any
// trailing slash. Plain http is accepted but flagged.
func normalizeAddress(address string, logger mapi.Logger) string {
	address = strings.TrimSuffix(address, "/")

	switch {
	case strings.HasPrefix(address, "https://"):
		return address
	case strings.HasPrefix(address, "http://"):
		logger.Warn("using insecure http protocol", map[string]interface{}{"address": address})

		return address
	default:
		return "https://" + address
	}
}

// buildAuthenticator selects the auth strategy from the configured
// credentials.
func buildAuthenticator(config *mapi.Config, logger mapi.Logger) (auth.Authenticator, error) {
	if config.ClientID != "" && !config.ClientKey.IsZero() {
		var seed *auth.Token
		if !config.AccessToken.IsZero() {
			seed = &auth.Token{Secret: config.AccessToken, ExpiresAt: config.TokenExpires}
		}

		var callback auth.TokenCallback
		if config.TokenRefresh != nil {
			refresh := config.TokenRefresh
			callback = func(token auth.Token) {
				refresh(token.Secret, token.ExpiresAt)
			}
		}

		oauth, err := auth.NewOAuth2(http.DefaultClient, config.TokenEndpoint, config.ClientID, config.ClientKey, seed, callback, logger)
		if err != nil {
			return nil, fmt.Errorf("configuring OAuth2 authentication: %w", err)
		}

		return oauth, nil
	}

	if config.Username != "" {
		return auth.NewBasic(config.Username, config.Password), nil
	}

	return auth.NoAuth{}, nil
}
