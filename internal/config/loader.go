package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if QFLICK_CONFIG is set
//  3. env (prefix QFLICK_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("QFLICK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: QFLICK_ADDR, QFLICK_TMDB_API_KEY, ...
	// Keys map to the koanf tags on the struct, underscores preserved.
	envProvider := env.Provider("QFLICK_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "qflick_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.HistoryQueueSize < 1 || cfg.WorkerCount < 1 {
		return nil, fmt.Errorf("%w: queue size and worker count must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
