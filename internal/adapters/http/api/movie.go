// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"strings"
)

// MovieHandler handles direct movie lookups.
type MovieHandler struct {
	deps Dependencies
}

// NewMovieHandler creates a new movie handler.
func NewMovieHandler(deps Dependencies) *MovieHandler {
	return &MovieHandler{deps: deps}
}

// HandleGetMovie handles GET /movie/{id} and GET /movie/{id}/soundtrack.
func (h *MovieHandler) HandleGetMovie(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_movie"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	// Extract path parameters after /movie/
	path := strings.TrimPrefix(r.URL.Path, "/movie/")
	idStr, rest, _ := strings.Cut(path, "/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	switch rest {
	case "":
		result, err := h.deps.Movie(r.Context(), id)
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	case "soundtrack":
		st, err := h.deps.Soundtrack(r.Context(), id)
		if err != nil {
			writeDomainError(w, "api.get_soundtrack", err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	default:
		http.NotFound(w, r)
	}
}
