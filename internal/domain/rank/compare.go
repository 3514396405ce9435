package rank

import (
	"github.com/solen/qflick/internal/domain/model"
)

// Compare runs both strategies over the same inputs and reports how they
// differ. Purely observational: disagreement is surfaced, never resolved.
func Compare(candidates []model.Movie, rawQuery string, opts ...Option) (model.Comparison, error) {
	classical, err := Classical(candidates, rawQuery, opts...)
	if err != nil {
		return model.Comparison{}, err
	}
	quantum, err := Quantum(candidates, rawQuery, opts...)
	if err != nil {
		return model.Comparison{}, err
	}

	return model.Comparison{
		ClassicalIndex: classical.Index,
		QuantumIndex:   quantum.Index,
		Iterations:     quantum.Iterations,
		Agree:          classical.Index == quantum.Index,
		Diversity:      diversity(candidates[classical.Index], candidates[quantum.Index]),
	}, nil
}

// diversity is the Jaccard distance between the tag sets of the two
// selections: 0.0 for identical sets (or the same pick), 1.0 for fully
// disjoint ones. Two empty tag sets count as identical.
func diversity(a, b model.Movie) float64 {
	if a.ID == b.ID {
		return 0
	}
	union := make(map[string]struct{}, len(a.Tags)+len(b.Tags))
	inA := make(map[string]struct{}, len(a.Tags))
	for _, t := range a.Tags {
		union[t] = struct{}{}
		inA[t] = struct{}{}
	}
	shared := 0
	for _, t := range b.Tags {
		if _, ok := union[t]; ok {
			if _, dup := inA[t]; dup {
				shared++
				delete(inA, t) // count duplicates in b once
			}
		}
		union[t] = struct{}{}
	}
	if len(union) == 0 {
		return 0
	}
	return 1 - float64(shared)/float64(len(union))
}
