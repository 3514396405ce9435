package rank

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrEmptyCandidateSet is returned when ranking is attempted over zero candidates.
	ErrEmptyCandidateSet = errors.New("empty candidate set")

	// ErrInvalidQuery is returned when the query yields zero tokens after
	// normalization. Reported before any scoring so the caller decides
	// whether to treat it as "no query" or a hard failure.
	ErrInvalidQuery = errors.New("query has no tokens")
)
