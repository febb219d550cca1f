package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrQuotaExceeded      = fmt.Errorf("API quota exceeded")
	ErrArtistNotFound     = fmt.Errorf("artist not found")

	// Cache errors: storage problems are fatal for a run, never degraded
	// to a silent miss.
	ErrCacheUnavailable = fmt.Errorf("artist cache unavailable")
	ErrCacheMiss        = fmt.Errorf("cache miss")

	// Sync outcome: at least one execution failure in an otherwise
	// completed run. Maps to its own exit code at the CLI boundary.
	ErrPartialFailure = fmt.Errorf("sync completed with failures")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
