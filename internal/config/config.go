// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers an optional YAML file and env vars.
// - External errors are wrapped via this package's error kinds.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// TMDBAPIKey and TMDBBaseURL configure the movie catalog upstream.
	TMDBAPIKey  string `koanf:"tmdb_api_key"`
	TMDBBaseURL string `koanf:"tmdb_base_url"`

	// LastFMAPIKey and LastFMBaseURL configure the soundtrack upstream.
	LastFMAPIKey  string `koanf:"lastfm_api_key"`
	LastFMBaseURL string `koanf:"lastfm_base_url"`

	// OpenAIAPIKey enables query refinement and enrichment; empty disables both.
	OpenAIAPIKey string `koanf:"openai_api_key"`

	// OpenAIModel names the chat model used for refinement/enrichment.
	OpenAIModel string `koanf:"openai_model"`

	// UpstreamTimeoutMS bounds every upstream HTTP call.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`

	// MatchWeight and PopularityWeight are the relevance scorer weights.
	MatchWeight      float64 `koanf:"match_weight"`
	PopularityWeight float64 `koanf:"popularity_weight"`

	// TunnelingMargin is the relative raw-score lead that triggers the
	// tunneling correction in the quantum ranker.
	TunnelingMargin float64 `koanf:"tunneling_margin"`

	// HistoryQueueSize bounds the in-memory search-record queue.
	HistoryQueueSize int `koanf:"history_queue_size"`

	// WorkerCount sets the number of history recording workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the request-id deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// RecentSize bounds the recent-searches ring kept by the history store.
	RecentSize int `koanf:"recent_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit and GET /recent?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`
}

// New creates a Config with defaults. Context is accepted first to match
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		TMDBBaseURL:         "https://api.themoviedb.org/3",
		LastFMBaseURL:       "https://ws.audioscrobbler.com/2.0/",
		OpenAIModel:         "gpt-4o",
		UpstreamTimeoutMS:   10_000,
		MatchWeight:         10,
		PopularityWeight:    0.1,
		TunnelingMargin:     0.15,
		HistoryQueueSize:    10_000,
		WorkerCount:         runtime.NumCPU(),
		DedupeSize:          50_000,
		RecentSize:          100,
		MaxLeaderboardLimit: 100,
	}
}
