package rank

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/solen/qflick/internal/domain/model"
)

// Quantum selects a candidate through a deterministic simulation of
// Grover-style amplitude amplification. There is no randomness anywhere
// in the loop: amplitudes are plain float64 values, the oracle is a sign
// flip on marked candidates, and diffusion reflects every amplitude
// about the mean.
func Quantum(candidates []model.Movie, rawQuery string, opts ...Option) (model.RankingResult, error) {
	c := newConfig(opts...)
	scores, err := prepare(candidates, rawQuery, c)
	if err != nil {
		return model.RankingResult{}, err
	}
	n := len(candidates)

	// Mark candidates scoring above the mean. When nothing clears the
	// bar (e.g. all scores equal) the single best candidate is marked so
	// the amplification has a target.
	marked := markRelevant(scores, candidates)
	m := 0
	for _, ok := range marked {
		if ok {
			m++
		}
	}

	amps := make([]float64, n)
	initial := 1 / math.Sqrt(float64(n))
	for i := range amps {
		amps[i] = initial
	}

	iterations := groverIterations(n, m)
	for it := 0; it < iterations; it++ {
		oracle(amps, marked)
		diffuse(amps)
	}

	probs := make([]float64, n)
	for i, a := range amps {
		probs[i] = a * a
	}
	best := argmax(probs, candidates)

	// Tunneling correction: when the runner-up's raw relevance clearly
	// beats the amplified winner's, the marking heuristic misfired and
	// the runner-up takes the selection.
	tunneled := false
	if second := runnerUp(probs, candidates, best); second >= 0 {
		if scores[second] > scores[best]+c.tunnelingMargin*math.Abs(scores[best]) {
			best = second
			tunneled = true
		}
	}

	return model.RankingResult{
		Index:      best,
		Mode:       model.ModeQuantum,
		Iterations: iterations,
		TopScore:   probs[best],
		Tunneled:   tunneled,
	}, nil
}

// markRelevant flags every candidate whose score exceeds the mean of the
// score vector, falling back to the single best candidate when none do.
func markRelevant(scores []float64, candidates []model.Movie) []bool {
	mean := stat.Mean(scores, nil)
	marked := make([]bool, len(scores))
	any := false
	for i, s := range scores {
		if s > mean {
			marked[i] = true
			any = true
		}
	}
	if !any {
		marked[argmax(scores, candidates)] = true
	}
	return marked
}

// groverIterations derives the amplification count floor(pi/4*sqrt(N/M)),
// clamped to [1, N] to guard against degenerate inputs.
func groverIterations(n, m int) int {
	r := int(math.Floor(math.Pi / 4 * math.Sqrt(float64(n)/float64(m))))
	if r < 1 {
		r = 1
	}
	if r > n {
		r = n
	}
	return r
}

// oracle flips the sign of every marked amplitude, the simulated phase
// inversion.
func oracle(amps []float64, marked []bool) {
	for i := range amps {
		if marked[i] {
			amps[i] = -amps[i]
		}
	}
}

// diffuse reflects every amplitude about the mean. Combined with the
// preceding sign flip this grows the magnitude of marked entries while
// preserving the squared sum.
func diffuse(amps []float64) {
	mean := stat.Mean(amps, nil)
	for i, a := range amps {
		amps[i] = 2*mean - a
	}
}
