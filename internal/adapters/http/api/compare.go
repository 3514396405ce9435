// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// compareRequest mirrors the OpenAPI schema for POST /compare.
type compareRequest struct {
	Query string `json:"query"`
}

func (c compareRequest) validate() error {
	if strings.TrimSpace(c.Query) == "" {
		return errors.New("missing query")
	}
	return nil
}

// CompareHandler handles mode-comparison requests.
type CompareHandler struct {
	deps Dependencies
}

// NewCompareHandler creates a new compare handler.
func NewCompareHandler(deps Dependencies) *CompareHandler {
	return &CompareHandler{deps: deps}
}

// HandlePostCompare handles POST /compare requests.
func (h *CompareHandler) HandlePostCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_compare"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	result, err := h.deps.Compare(r.Context(), req.Query)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
