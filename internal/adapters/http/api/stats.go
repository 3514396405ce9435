// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/solen/qflick/internal/domain/types"
)

// StatsProvider snapshots the history pipeline behind the search
// service: queue fill, worker count, search and dedupe counters.
type StatsProvider interface {
	GetStats() types.ServiceStats
}

// StatsHandler serves the pipeline snapshot.
type StatsHandler struct {
	stats StatsProvider
}

// NewStatsHandler creates a stats handler backed by the given provider.
func NewStatsHandler(stats StatsProvider) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// HandleStats handles GET /stats.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.stats.GetStats())
}
