package catalog

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMissingAPIKey = errors.New("tmdb api key not configured")
	ErrNotFound      = errors.New("movie not found")
	ErrUpstream      = errors.New("tmdb request failed")
)
