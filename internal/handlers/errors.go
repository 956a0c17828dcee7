package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"docqa/internal/contextutil"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}

// writeEngineError maps RAG engine errors to appropriate HTTP status codes.
func writeEngineError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "engine error", "error", err)

	errMsg := strings.ToLower(err.Error())

	// Validation errors -> 400
	if strings.Contains(errMsg, "question too") || strings.Contains(errMsg, "query too") {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Vector store errors -> 503
	if strings.Contains(errMsg, "vector store") ||
		strings.Contains(errMsg, "qdrant") ||
		strings.Contains(errMsg, "failed to search") {
		writeError(w, http.StatusServiceUnavailable, "Vector store unavailable")
		return
	}

	// Model and embedding service errors -> 502
	if strings.Contains(errMsg, "embed") ||
		strings.Contains(errMsg, "model response") {
		writeError(w, http.StatusBadGateway, "External service error")
		return
	}

	writeError(w, http.StatusInternalServerError, defaultMsg)
}
