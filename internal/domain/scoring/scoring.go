// Package scoring computes the lexical+popularity relevance of a movie
// against a query token set. Both ranking strategies share this signal.
package scoring

import (
	"github.com/solen/qflick/internal/domain/model"
	"github.com/solen/qflick/internal/domain/query"
)

// Default scoring weights.
const (
	defaultMatchWeight      = 10.0
	defaultPopularityWeight = 0.1
)

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithMatchWeight sets the weight of one query-token match.
func WithMatchWeight(w float64) Option {
	return func(s *Scorer) {
		if w > 0 {
			s.matchWeight = w
		}
	}
}

// WithPopularityWeight sets the weight of the catalog popularity boost.
func WithPopularityWeight(w float64) Option {
	return func(s *Scorer) {
		if w > 0 {
			s.popularityWeight = w
		}
	}
}

// Scorer holds the relevance weights. The zero value is unusable; use New.
type Scorer struct {
	matchWeight      float64
	popularityWeight float64
}

// New creates a Scorer with configuration options.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		matchWeight:      defaultMatchWeight,
		popularityWeight: defaultPopularityWeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns the relevance of m for the given query token set.
// Pure and deterministic: matchCount*matchWeight plus the popularity
// boost. A movie with zero token matches still earns its popularity
// boost so irrelevant candidates keep a deterministic total ordering.
func (s *Scorer) Score(m model.Movie, tokens map[string]struct{}) float64 {
	movieTokens := query.TokenSet(m.Title + " " + m.Overview)
	matches := 0
	for t := range tokens {
		if _, ok := movieTokens[t]; ok {
			matches++
		}
	}
	return float64(matches)*s.matchWeight + m.Popularity*s.popularityWeight
}

// Vector scores every candidate, preserving input order. The slice is
// freshly allocated per call and never shared.
func (s *Scorer) Vector(candidates []model.Movie, tokens map[string]struct{}) []float64 {
	scores := make([]float64, len(candidates))
	for i, m := range candidates {
		scores[i] = s.Score(m, tokens)
	}
	return scores
}
