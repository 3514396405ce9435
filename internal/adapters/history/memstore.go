package history

import (
	"context"
	"sort"
	"sync"

	"github.com/solen/qflick/internal/domain/model"
	"github.com/solen/qflick/pkg/metrics"
)

const defaultRecentSize = 100

// Option applies a configuration option to the in-memory store.
type Option func(*MemStore)

// WithRecentSize bounds the recent-searches ring.
func WithRecentSize(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.recentSize = n
		}
	}
}

// MemStore implements Store with plain maps guarded by a mutex. Search
// volumes here are human-scale, so a sharded structure buys nothing.
type MemStore struct {
	mu         sync.RWMutex
	counts     map[int64]*MovieCount
	recent     []model.SearchRecord // ring, oldest at head when full
	recentSize int
	searches   int64
}

// NewMemStore creates an in-memory history store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		counts:     make(map[int64]*MovieCount),
		recentSize: defaultRecentSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record stores one completed search.
func (s *MemStore) Record(_ context.Context, rec model.SearchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counts[rec.MovieID]
	if !ok {
		c = &MovieCount{MovieID: rec.MovieID, Title: rec.Title}
		s.counts[rec.MovieID] = c
	}
	c.Selections++
	if rec.Title != "" {
		c.Title = rec.Title
	}

	s.recent = append(s.recent, rec)
	if len(s.recent) > s.recentSize {
		s.recent = s.recent[len(s.recent)-s.recentSize:]
	}
	s.searches++

	metrics.UpdateRecordsStored(len(s.counts))
	return nil
}

// TopMovies returns up to n movies by selection count, ties by title.
func (s *MemStore) TopMovies(_ context.Context, n int) ([]MovieCount, error) {
	s.mu.RLock()
	all := make([]MovieCount, 0, len(s.counts))
	for _, c := range s.counts {
		all = append(all, *c)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Selections != all[j].Selections {
			return all[i].Selections > all[j].Selections
		}
		return all[i].Title < all[j].Title
	})
	if n < len(all) {
		all = all[:n]
	}
	for i := range all {
		all[i].Rank = i + 1
	}
	return all, nil
}

// Recent returns up to n most recent searches, newest first.
func (s *MemStore) Recent(_ context.Context, n int) ([]model.SearchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.recent) {
		n = len(s.recent)
	}
	out := make([]model.SearchRecord, n)
	for i := 0; i < n; i++ {
		out[i] = s.recent[len(s.recent)-1-i]
	}
	return out, nil
}

// Count returns the number of distinct movies ever selected.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.counts)
}

// Searches returns the total number of recorded searches.
func (s *MemStore) Searches(_ context.Context) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searches
}
