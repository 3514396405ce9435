package demo

import (
	"context"
	"fmt"
	"os"

	"github.com/solen/qflick/internal/domain/model"
	"github.com/solen/qflick/internal/domain/rank"
	"github.com/solen/qflick/pkg/logger"
)

// Run executes the demo against the fixture catalog.
func Run(ctx context.Context, config *Config) error {
	log := logger.Get()
	if config.Verbose {
		_ = logger.SetLevelString("debug")
	}

	queries := defaultQueries
	if config.Query != "" {
		queries = []string{config.Query}
	}

	log.Info(ctx, "starting ranking demo",
		logger.Int("catalogSize", len(fixtureCatalog)),
		logger.Int("queries", len(queries)),
		logger.String("mode", config.Mode),
	)

	for _, q := range queries {
		if err := runQuery(ctx, config, q); err != nil {
			return fmt.Errorf("query %q: %w", q, err)
		}
	}
	return nil
}

func runQuery(ctx context.Context, config *Config, query string) error {
	fmt.Fprintf(os.Stdout, "\nquery: %q\n", query)

	if config.Mode == "classical" || config.Mode == "both" {
		res, err := rank.Classical(fixtureCatalog, query)
		if err != nil {
			return err
		}
		printResult(res, fixtureCatalog[res.Index])
	}
	if config.Mode == "quantum" || config.Mode == "both" {
		res, err := rank.Quantum(fixtureCatalog, query)
		if err != nil {
			return err
		}
		printResult(res, fixtureCatalog[res.Index])
	}

	if config.Compare {
		cmp, err := rank.Compare(fixtureCatalog, query)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "  compare:   classical=%q quantum=%q agree=%t diversity=%.2f iterations=%d\n",
			fixtureCatalog[cmp.ClassicalIndex].Title,
			fixtureCatalog[cmp.QuantumIndex].Title,
			cmp.Agree, cmp.Diversity, cmp.Iterations)
	}
	return nil
}

func printResult(res model.RankingResult, picked model.Movie) {
	extra := ""
	if res.Tunneled {
		extra = " (tunneled)"
	}
	fmt.Fprintf(os.Stdout, "  %-9s  %q  score=%.4f iterations=%d%s\n",
		res.Mode+":", picked.Title, res.TopScore, res.Iterations, extra)
}
