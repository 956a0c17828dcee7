package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"docqa/internal/contextutil"
	"docqa/internal/indexer"
	"docqa/internal/vectorstore"
)

// CollectionInspector reports collection-level information from the vector store.
type CollectionInspector interface {
	GetCollectionInfo(ctx context.Context, collection string) (*vectorstore.CollectionInfo, error)
}

// StatusHandler handles HTTP requests for index status.
type StatusHandler struct {
	pipeline       *indexer.Pipeline
	inspector      CollectionInspector
	collection     string
	answerModel    string
	embeddingModel string
	documentsPath  string
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(
	pipeline *indexer.Pipeline,
	inspector CollectionInspector,
	collection string,
	answerModel string,
	embeddingModel string,
	documentsPath string,
) *StatusHandler {
	return &StatusHandler{
		pipeline:       pipeline,
		inspector:      inspector,
		collection:     collection,
		answerModel:    answerModel,
		embeddingModel: embeddingModel,
		documentsPath:  documentsPath,
	}
}

// CollectionStatus describes the vector store collection.
type CollectionStatus struct {
	Name        string `json:"name"`
	VectorSize  int    `json:"vector_size"`
	PointsCount int    `json:"points_count"`
	Status      string `json:"status"`
}

// StatusResponse represents the index status response.
type StatusResponse struct {
	DocumentsPath  string                 `json:"documents_path"`
	AnswerModel    string                 `json:"answer_model"`
	EmbeddingModel string                 `json:"embedding_model"`
	Collection     *CollectionStatus      `json:"collection,omitempty"`
	Tracking       *indexer.TrackingStats `json:"tracking"`
}

// ServeHTTP handles GET /api/status.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	tracking, err := h.pipeline.Stats(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to compute tracking stats", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to compute index status")
		return
	}

	resp := StatusResponse{
		DocumentsPath:  h.documentsPath,
		AnswerModel:    h.answerModel,
		EmbeddingModel: h.embeddingModel,
		Tracking:       tracking,
	}

	// Collection info is best effort. The tracking stats remain useful when the
	// vector store is down.
	info, err := h.inspector.GetCollectionInfo(ctx, h.collection)
	if err != nil {
		logger.WarnContext(ctx, "failed to get collection info", "error", err)
	} else {
		resp.Collection = &CollectionStatus{
			Name:        h.collection,
			VectorSize:  info.VectorSize,
			PointsCount: info.PointsCount,
			Status:      info.Status,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
