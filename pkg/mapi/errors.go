package mapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Static errors that can be wrapped with context.
var (
	ErrUnknownAPI          = errors.New("unknown API namespace")
	ErrNotGetAllRequest    = errors.New("request is not a get-all request")
	ErrNoMoreItems         = errors.New("no more items")
	ErrAddressRequired     = errors.New("management API address is required")
	ErrInvalidSigningKey   = errors.New("invalid OAuth2 signing key")
	ErrUnexpectedTokenType = errors.New("token endpoint returned an unexpected token type")
	ErrTokenRequestFailed  = errors.New("token request failed")
)

// TransportError reports a failure to complete the HTTP exchange at all:
// connection, DNS or TLS trouble. It is never retried by the client.
type TransportError struct {
	// Status is the HTTP status if one was observed before the failure,
	// otherwise 0.
	Status int
	Cause  error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("error sending request: %v", e.Cause)
}

// Unwrap exposes the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// DecodeError reports a successful response whose body could not be parsed
// as JSON. Body carries the raw payload for diagnosis.
type DecodeError struct {
	Body  []byte
	Cause error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse API response to JSON (%v):\n\n%s", e.Cause, e.Body)
}

// Unwrap exposes the underlying parse error.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// APIError reports a non-success HTTP status from the management API. It is
// the only error kind carrying structured status for callers to branch on.
type APIError struct {
	// Status is the HTTP status code, or 0 when no status was available.
	Status  int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api error with status %d: %s", e.Status, e.Message)
	}

	return "api error: " + e.Message
}

// Unwrap exposes the nested cause, if any.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// jsonError is the preferred server error body shape.
type jsonError struct {
	Error string `json:"error"`
}

// NewAPIErrorFromBody builds an APIError for a non-success response,
// extracting the best available human-readable message from the body:
// an {"error": "..."} shape, then pretty-printed arbitrary JSON, then the
// raw body, then a generic fallback naming the status. Extraction never
// fails outright.
func NewAPIErrorFromBody(status int, body []byte) *APIError {
	return &APIError{Status: status, Message: "http error: " + errorMessageFromBody(status, body)}
}

func errorMessageFromBody(status int, body []byte) string {
	if len(body) == 0 {
		return fmt.Sprintf("response code %q did not indicate success", statusText(status))
	}

	var structured jsonError
	if err := json.Unmarshal(body, &structured); err == nil && structured.Error != "" {
		return structured.Error
	}

	var arbitrary any
	if err := json.Unmarshal(body, &arbitrary); err == nil {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, body, "", "  "); err == nil {
			return "\n" + pretty.String()
		}
	}

	return string(body)
}

func statusText(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return fmt.Sprintf("%d", status)
	}

	return fmt.Sprintf("%d %s", status, text)
}

// IsUnauthorized reports whether err is an APIError with a 401 status.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is an APIError with a 404 status.
func IsNotFound(err error) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
