// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/solen/qflick/internal/adapters/catalog"
	service "github.com/solen/qflick/internal/app"
	"github.com/solen/qflick/internal/domain/model"
	"github.com/solen/qflick/internal/domain/rank"
	"github.com/solen/qflick/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Search(ctx context.Context, query string, mode model.Mode, requestID string) (types.SearchResult, error)
	Compare(ctx context.Context, query string) (types.ComparisonResult, error)
	Movie(ctx context.Context, id int64) (types.SearchResult, error)
	Soundtrack(ctx context.Context, id int64) (types.Soundtrack, error)
	Leaderboard(ctx context.Context, n int) ([]types.LeaderboardEntry, error)
	Recent(ctx context.Context, n int) ([]types.RecentSearch, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	searchHandler      *SearchHandler
	compareHandler     *CompareHandler
	movieHandler       *MovieHandler
	leaderboardHandler *LeaderboardHandler
	recentHandler      *RecentHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		searchHandler:      NewSearchHandler(deps),
		compareHandler:     NewCompareHandler(deps),
		movieHandler:       NewMovieHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		recentHandler:      NewRecentHandler(deps, maxLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/search", MetricsMiddleware(s.searchHandler.HandlePostSearch, "search"))
	mux.HandleFunc("/compare", MetricsMiddleware(s.compareHandler.HandlePostCompare, "compare"))
	mux.HandleFunc("/movie/", MetricsMiddleware(s.movieHandler.HandleGetMovie, "movie"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/recent", MetricsMiddleware(s.recentHandler.HandleGetRecent, "recent"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates known error kinds into HTTP responses so
// every handler maps failures the same way.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, rank.ErrInvalidQuery), errors.Is(err, service.ErrUnknownMode):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	case errors.Is(err, rank.ErrEmptyCandidateSet):
		writeError(w, http.StatusNotFound, "no_results", Wrap(op, err))
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, service.ErrNoSoundtrack):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "upstream_timeout", Wrap(op, err))
	case errors.Is(err, catalog.ErrUpstream):
		writeError(w, http.StatusBadGateway, "upstream_error", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
