package constants

import "time"

// HTTP and network settings.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// MaxConcurrentRequests bounds simultaneous in-flight requests. Too
	// many concurrent calls bog the management node down.
	MaxConcurrentRequests = 5

	// DefaultRetryWaitMin is the minimum backoff when retries are enabled.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum backoff when retries are enabled.
	DefaultRetryWaitMax = 30 * time.Second
)

// OAuth2 settings.
const (
	// TokenExpirySkew is how long before expiry a cached token is treated
	// as stale and refreshed.
	TokenExpirySkew = 5 * time.Minute

	// AssertionLifetime is the validity window claimed by a signed
	// assertion.
	AssertionLifetime = time.Hour

	// TokenIDBytes is the entropy of a token ID; hex-encoded it yields 36
	// characters.
	TokenIDBytes = 18
)

// Pagination settings.
const (
	// DefaultPageSize is the page size used when a caller does not pick one.
	DefaultPageSize = 100
)

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration and cache directories.
	ConfigDirPerm = 0o750

	// ConfigFilePerm is the permission for configuration and cache files.
	ConfigFilePerm = 0o600
)
