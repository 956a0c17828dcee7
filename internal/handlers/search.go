package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"docqa/internal/contextutil"
	"docqa/internal/rag"
)

// SearchHandler handles HTTP requests for retrieval-only search.
type SearchHandler struct {
	ragEngine rag.Engine
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(ragEngine rag.Engine) *SearchHandler {
	return &SearchHandler{ragEngine: ragEngine}
}

// SearchResponse represents the HTTP response payload for search.
type SearchResponse struct {
	Matches []rag.SearchMatch `json:"matches"`
}

// ServeHTTP handles POST /api/search.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req rag.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		logger.WarnContext(ctx, "empty query in request")
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	matches, err := h.ragEngine.Search(ctx, req)
	if err != nil {
		writeEngineError(w, ctx, err, "Failed to search")
		return
	}
	if matches == nil {
		matches = []rag.SearchMatch{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(SearchResponse{Matches: matches}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
