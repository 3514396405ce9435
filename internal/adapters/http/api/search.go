// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/solen/qflick/internal/domain/model"
)

// searchRequest mirrors the OpenAPI schema for POST /search.
type searchRequest struct {
	Query      string `json:"query"`
	Mode       string `json:"mode"`
	UseQuantum bool   `json:"use_quantum"`
	RequestID  string `json:"request_id"`
}

func (s searchRequest) validate() error {
	if strings.TrimSpace(s.Query) == "" {
		return errors.New("missing query")
	}
	if s.Mode != "" && !model.Mode(s.Mode).Valid() {
		return errors.New("mode must be classical or quantum")
	}
	return nil
}

// mode resolves the ranking mode: an explicit mode field wins over the
// legacy use_quantum flag.
func (s searchRequest) mode() model.Mode {
	if s.Mode != "" {
		return model.Mode(s.Mode)
	}
	if s.UseQuantum {
		return model.ModeQuantum
	}
	return model.ModeClassical
}

// SearchHandler handles search requests.
type SearchHandler struct {
	deps Dependencies
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps Dependencies) *SearchHandler {
	return &SearchHandler{deps: deps}
}

// HandlePostSearch handles POST /search requests.
func (h *SearchHandler) HandlePostSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_search"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	result, err := h.deps.Search(r.Context(), req.Query, req.mode(), req.RequestID)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
