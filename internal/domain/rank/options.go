package rank

import (
	"github.com/solen/qflick/internal/domain/scoring"
)

// Default ranking configuration constants.
const (
	// defaultTunnelingMargin is the relative raw-score lead the runner-up
	// needs before the tunneling correction overrides the amplified pick.
	defaultTunnelingMargin = 0.15
)

// Option applies a configuration option to a ranking call.
type Option func(*config)

// config carries per-call knobs. Every invocation starts from defaults,
// so concurrent calls never share state.
type config struct {
	scorer          *scoring.Scorer
	tunnelingMargin float64
}

func newConfig(opts ...Option) *config {
	c := &config{
		scorer:          scoring.New(),
		tunnelingMargin: defaultTunnelingMargin,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithScorer replaces the default relevance scorer.
func WithScorer(s *scoring.Scorer) Option {
	return func(c *config) {
		if s != nil {
			c.scorer = s
		}
	}
}

// WithTunnelingMargin sets the relative margin of the tunneling correction.
func WithTunnelingMargin(m float64) Option {
	return func(c *config) {
		if m > 0 {
			c.tunnelingMargin = m
		}
	}
}
