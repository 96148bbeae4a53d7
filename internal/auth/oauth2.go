package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/confcloud-io/mapi-client/internal/constants"
	"github.com/confcloud-io/mapi-client/pkg/mapi"
)

// Token is a cached bearer token and its expiry.
type Token struct {
	Secret    mapi.Secret
	ExpiresAt time.Time
}

// TokenCallback is invoked after every successful refresh so callers can
// persist the new token.
type TokenCallback func(token Token)

// OAuth2 implements the client-credentials flow with a signed ES256 JWT
// assertion in place of a client secret. The cached token is the only
// mutable state; the check-and-refresh sequence is serialized under one
// lock held across the token round-trip, so concurrent callers block on the
// first refresher instead of issuing duplicate refreshes.
type OAuth2 struct {
	httpClient *http.Client
	endpoint   string
	clientID   string
	signingKey *ecdsa.PrivateKey
	logger     mapi.Logger

	mu       sync.Mutex
	token    *Token
	callback TokenCallback
}

// tokenResponse is the token endpoint's success body.
type tokenResponse struct {
	AccessToken mapi.Secret `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	TokenType   string      `json:"token_type"`
}

// NewOAuth2 creates an OAuth2 authenticator. The key must be an EC (ES256)
// private key in PEM form; a malformed key is reported here as a typed
// error rather than on first use. seed optionally carries a previously
// persisted token; callback may be nil.
func NewOAuth2(httpClient *http.Client, endpoint, clientID string, key mapi.Secret, seed *Token, callback TokenCallback, logger mapi.Logger) (*OAuth2, error) {
	signingKey, err := jwt.ParseECPrivateKeyFromPEM([]byte(key.Value()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", mapi.ErrInvalidSigningKey, err)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if logger == nil {
		logger = mapi.NopLogger{}
	}

	return &OAuth2{
		httpClient: httpClient,
		endpoint:   endpoint,
		clientID:   clientID,
		signingKey: signingKey,
		logger:     logger,
		token:      seed,
		callback:   callback,
	}, nil
}

// Authenticate implements Authenticator. It attaches the cached bearer
// token when it is still comfortably valid, otherwise it refreshes first.
func (o *OAuth2) Authenticate(ctx context.Context, req *http.Request) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.token != nil && o.token.ExpiresAt.After(time.Now().Add(constants.TokenExpirySkew)) {
		o.logger.Debug("using cached OAuth2 token", map[string]interface{}{
			"expires_at": o.token.ExpiresAt,
		})
		req.Header.Set("Authorization", "Bearer "+o.token.Secret.Value())

		return nil
	}

	token, err := o.fetchToken(ctx)
	if err != nil {
		return err
	}

	o.token = &token
	if o.callback != nil {
		o.callback(token)
	}

	req.Header.Set("Authorization", "Bearer "+token.Secret.Value())

	return nil
}

// fetchToken mints an assertion and exchanges it at the token endpoint.
// Callers must hold o.mu.
func (o *OAuth2) fetchToken(ctx context.Context) (Token, error) {
	issuedAt := time.Now()
	tokenID, err := generateTokenID()
	if err != nil {
		return Token{}, fmt.Errorf("generating token ID: %w", err)
	}

	o.logger.Debug("fetching new OAuth2 token", map[string]interface{}{
		"token_id": tokenID,
	})

	assertion, err := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": o.clientID,
		"aud": o.endpoint,
		"sub": o.clientID,
		"iat": issuedAt.Unix(),
		"exp": issuedAt.Add(constants.AssertionLifetime).Unix(),
		"jti": tokenID,
	}).SignedString(o.signingKey)
	if err != nil {
		return Token{}, fmt.Errorf("signing assertion: %w", err)
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_assertion_type", "urn:ietf:params:oauth:client-assertion-type:jwt-bearer")
	form.Set("client_assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, fmt.Errorf("building token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return Token{}, &mapi.TransportError{Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Token{}, &mapi.TransportError{Status: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Token{}, fmt.Errorf("%w: %w", mapi.ErrTokenRequestFailed, mapi.NewAPIErrorFromBody(resp.StatusCode, body))
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Token{}, &mapi.DecodeError{Body: body, Cause: err}
	}

	if parsed.TokenType != "Bearer" {
		return Token{}, fmt.Errorf("%w: %q", mapi.ErrUnexpectedTokenType, parsed.TokenType)
	}

	token := Token{
		Secret:    parsed.AccessToken,
		ExpiresAt: issuedAt.Add(time.Duration(parsed.ExpiresIn) * time.Second),
	}

	o.logger.Debug("fetched new OAuth2 token", map[string]interface{}{
		"expires_at": token.ExpiresAt,
	})

	return token, nil
}

// generateTokenID returns a fresh assertion ID: 18 random bytes, hex
// encoded to 36 characters.
func generateTokenID() (string, error) {
	var buf [constants.TokenIDBytes]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}

	return hex.EncodeToString(buf[:]), nil
}
