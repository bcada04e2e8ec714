package defaults

import "time"

// HTTP client settings for Portainer API requests.
const (
	// RequestTimeout is the per-request timeout for Portainer API calls.
	// Individual fetch failures are recorded and skipped, never retried,
	// so this bounds how long a single slow call can hold a worker.
	RequestTimeout = 10 * time.Second

	// AuthTimeout is the timeout for the initial authentication exchange.
	AuthTimeout = 15 * time.Second

	// MaxResponseBytes caps a single API response body. Container stats
	// payloads are the largest responses and stay well under this.
	MaxResponseBytes = 32 * 1024 * 1024
)

// Concurrency settings for the collection run.
const (
	// Workers is the default width of the group fan-out pool.
	Workers = 32

	// RateLimit is the default client-side request rate (requests/second)
	// against the Portainer API. Zero disables limiting.
	RateLimit = 50
)
