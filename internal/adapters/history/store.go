// Package history keeps telemetry about completed searches: which movies
// got selected, by which mode, and when. It powers the selection
// leaderboard, the recent-searches listing and service stats. It never
// caches upstream API responses.
package history

import (
	"context"

	"github.com/solen/qflick/internal/domain/model"
)

// MovieCount is one leaderboard row: a movie and how often it was selected.
type MovieCount struct {
	Rank       int
	MovieID    int64
	Title      string
	Selections int
}

// Store records completed searches and serves aggregate views over them.
type Store interface {
	// Record stores one completed search.
	Record(ctx context.Context, rec model.SearchRecord) error

	// TopMovies returns up to n movies ordered by selection count, then
	// title for a stable order.
	TopMovies(ctx context.Context, n int) ([]MovieCount, error)

	// Recent returns up to n most recent searches, newest first.
	Recent(ctx context.Context, n int) ([]model.SearchRecord, error)

	// Count returns the number of distinct movies ever selected.
	Count(ctx context.Context) int

	// Searches returns the total number of recorded searches.
	Searches(ctx context.Context) int64
}
