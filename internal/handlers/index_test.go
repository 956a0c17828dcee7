package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"docqa/internal/indexer"
	"docqa/internal/library"
	storage_mocks "docqa/internal/storage/mocks"
)

// newIndexPipeline builds a pipeline over an empty documents directory. The
// handler runs indexing in a background goroutine, so all expectations use
// AnyTimes.
func newIndexPipeline(t *testing.T, ctrl *gomock.Controller) *indexer.Pipeline {
	t.Helper()

	scanner, err := library.NewScanner(t.TempDir())
	if err != nil {
		t.Fatalf("NewScanner() error = %v", err)
	}

	fileRepo := storage_mocks.NewMockFileStore(ctrl)
	fileRepo.EXPECT().ListAll(gomock.Any()).Return(nil, nil).AnyTimes()
	chunkRepo := storage_mocks.NewMockChunkStore(ctrl)

	return indexer.NewPipeline(scanner, fileRepo, chunkRepo, nil, nil, "docs", nil)
}

func TestIndexHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := NewIndexHandler(newIndexPipeline(t, ctrl))

	req := httptest.NewRequest(http.MethodPost, "/api/index", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	var resp IndexResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "accepted" {
		t.Errorf("response status = %q", resp.Status)
	}
	if resp.Message == "" {
		t.Error("message should not be empty")
	}
}

func TestIndexHandler_Force(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := NewIndexHandler(newIndexPipeline(t, ctrl))

	req := httptest.NewRequest(http.MethodPost, "/api/index?force=true", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Force") {
		t.Errorf("body = %s, want force message", rec.Body.String())
	}
}

func TestIndexHandler_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := NewIndexHandler(newIndexPipeline(t, ctrl))

	req := httptest.NewRequest(http.MethodGet, "/api/index", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
