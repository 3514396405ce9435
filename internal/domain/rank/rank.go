// Package rank selects the best-matching movie from a candidate set.
//
// Two interchangeable strategies are provided: Classical maximizes the
// relevance score directly, Quantum runs a deterministic simulation of
// Grover-style amplitude amplification over the same score vector.
// Compare runs both and reports how they differ.
//
// All operations are synchronous, allocate per call, and are safe for
// concurrent use; candidate slices are never mutated.
package rank

import (
	"github.com/solen/qflick/internal/domain/model"
	"github.com/solen/qflick/internal/domain/query"
)

// prepare validates inputs and computes the score vector shared by both
// strategies. The empty-set check comes first; the query check happens
// before any scoring.
func prepare(candidates []model.Movie, raw string, c *config) ([]float64, error) {
	if len(candidates) == 0 {
		return nil, ErrEmptyCandidateSet
	}
	tokens := query.TokenSet(raw)
	if len(tokens) == 0 {
		return nil, ErrInvalidQuery
	}
	return c.scorer.Vector(candidates, tokens), nil
}

// argmax returns the index of the maximum value in vals. Ties break by
// higher candidate popularity, then by lowest original index.
func argmax(vals []float64, candidates []model.Movie) int {
	best := 0
	for i := 1; i < len(vals); i++ {
		switch {
		case vals[i] > vals[best]:
			best = i
		case vals[i] == vals[best] && candidates[i].Popularity > candidates[best].Popularity:
			best = i
		}
	}
	return best
}

// runnerUp returns the index of the second-best value, excluding skip,
// using the same tie-break as argmax. Returns -1 when there is no other
// candidate.
func runnerUp(vals []float64, candidates []model.Movie, skip int) int {
	best := -1
	for i := range vals {
		if i == skip {
			continue
		}
		switch {
		case best == -1:
			best = i
		case vals[i] > vals[best]:
			best = i
		case vals[i] == vals[best] && candidates[i].Popularity > candidates[best].Popularity:
			best = i
		}
	}
	return best
}
