package rank

import (
	"github.com/solen/qflick/internal/domain/model"
)

// Classical selects the candidate with the maximum relevance score.
// Ties break by higher popularity, then by lowest original index.
func Classical(candidates []model.Movie, rawQuery string, opts ...Option) (model.RankingResult, error) {
	c := newConfig(opts...)
	scores, err := prepare(candidates, rawQuery, c)
	if err != nil {
		return model.RankingResult{}, err
	}

	best := argmax(scores, candidates)
	return model.RankingResult{
		Index:      best,
		Mode:       model.ModeClassical,
		Iterations: 1,
		TopScore:   scores[best],
	}, nil
}
