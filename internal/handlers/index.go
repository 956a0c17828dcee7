package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"docqa/internal/contextutil"
	"docqa/internal/indexer"
)

// IndexHandler handles HTTP requests for triggering re-indexing.
type IndexHandler struct {
	pipeline *indexer.Pipeline
}

// NewIndexHandler creates a new IndexHandler.
func NewIndexHandler(pipeline *indexer.Pipeline) *IndexHandler {
	return &IndexHandler{pipeline: pipeline}
}

// IndexResponse represents the response from the index endpoint.
type IndexResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ServeHTTP handles POST /api/index. Indexing runs in the background and the
// request returns immediately with 202.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	force := r.URL.Query().Get("force") == "true"
	logger.InfoContext(ctx, "indexing triggered via API", "force", force)

	// Background context so indexing survives the HTTP request.
	go func() {
		indexCtx := context.Background()
		summary, err := h.pipeline.IndexAll(indexCtx, force)
		if err != nil {
			logger.ErrorContext(indexCtx, "indexing completed with errors", "error", err)
			return
		}
		logger.InfoContext(indexCtx, "indexing completed",
			"files_indexed", summary.FilesIndexed,
			"files_skipped", summary.FilesSkipped,
			"files_removed", summary.FilesRemoved,
			"chunks_indexed", summary.ChunksIndexed,
		)
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	message := "Indexing started. Check server logs for progress."
	if force {
		message = "Force re-indexing started. Check server logs for progress."
	}
	_ = json.NewEncoder(w).Encode(IndexResponse{
		Message: message,
		Status:  "accepted",
	})
}
