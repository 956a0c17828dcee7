package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"docqa/internal/contextutil"
	"docqa/internal/rag"
)

// AskHandler handles HTTP requests for question answering.
type AskHandler struct {
	ragEngine  rag.Engine
	maxResults int
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(ragEngine rag.Engine, maxResults int) *AskHandler {
	return &AskHandler{
		ragEngine:  ragEngine,
		maxResults: maxResults,
	}
}

// AskRequest represents the HTTP request payload for question answering.
// This mirrors the rag.AskRequest but is defined here for HTTP layer separation.
type AskRequest struct {
	Question   string   `json:"question"`
	Sources    []string `json:"sources,omitempty"`
	Ext        string   `json:"ext,omitempty"`
	K          int      `json:"k,omitempty"`
	Standalone bool     `json:"standalone,omitempty"`
}

// ReferenceResponse represents a reference in the HTTP response.
type ReferenceResponse struct {
	Source     string  `json:"source"`
	Name       string  `json:"name"`
	Page       int     `json:"page,omitempty"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float32 `json:"score"`
}

// AskResponse represents the HTTP response payload for question answering.
type AskResponse struct {
	Answer     string              `json:"answer"`
	References []ReferenceResponse `json:"references"`
	Complex    bool                `json:"complex"`
	Debug      *rag.DebugInfo      `json:"debug,omitempty"`
}

// ServeHTTP handles POST /api/ask.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		logger.WarnContext(ctx, "empty question in request")
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}

	// Zero K means "auto". Negative values and oversized values are clamped.
	if req.K < 0 {
		req.K = 0
	}
	if req.K > h.maxResults {
		req.K = h.maxResults
	}

	debug := false
	if debugParam := r.URL.Query().Get("debug"); debugParam != "" {
		debug = strings.EqualFold(debugParam, "true") || debugParam == "1"
	}

	ragResp, err := h.ragEngine.Ask(ctx, rag.AskRequest{
		Question:   req.Question,
		Sources:    req.Sources,
		Ext:        req.Ext,
		K:          req.K,
		Standalone: req.Standalone,
		Debug:      debug,
	})
	if err != nil {
		writeEngineError(w, ctx, err, "Failed to answer question")
		return
	}

	references := make([]ReferenceResponse, len(ragResp.References))
	for i, ref := range ragResp.References {
		references[i] = ReferenceResponse{
			Source:     ref.Source,
			Name:       ref.Name,
			Page:       ref.Page,
			ChunkIndex: ref.ChunkIndex,
			Score:      ref.Score,
		}
	}

	resp := AskResponse{
		Answer:     ragResp.Answer,
		References: references,
		Complex:    ragResp.Complex,
		Debug:      ragResp.Debug,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
