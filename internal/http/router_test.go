package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"docqa/internal/indexer"
	"docqa/internal/rag"
	storage_mocks "docqa/internal/storage/mocks"
	"docqa/internal/vectorstore"
)

type fakeEngine struct{}

func (fakeEngine) Ask(_ context.Context, _ rag.AskRequest) (rag.AskResponse, error) {
	return rag.AskResponse{Answer: "an answer", References: []rag.Reference{}}, nil
}

func (fakeEngine) Search(_ context.Context, _ rag.SearchRequest) ([]rag.SearchMatch, error) {
	return []rag.SearchMatch{}, nil
}

type fakeVectorStoreAdmin struct{}

func (fakeVectorStoreAdmin) CollectionExists(_ context.Context, _ string) (bool, error) {
	return true, nil
}

func (fakeVectorStoreAdmin) GetCollectionInfo(_ context.Context, _ string) (*vectorstore.CollectionInfo, error) {
	return &vectorstore.CollectionInfo{VectorSize: 768, Status: "green"}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	fileRepo := storage_mocks.NewMockFileStore(ctrl)
	fileRepo.EXPECT().ListAll(gomock.Any()).Return(nil, nil).AnyTimes()
	chunkRepo := storage_mocks.NewMockChunkStore(ctrl)
	pipeline := indexer.NewPipeline(nil, fileRepo, chunkRepo, nil, nil, "docs", nil)

	return NewRouter(&Deps{
		RAGEngine:      fakeEngine{},
		Pipeline:       pipeline,
		Checker:        fakeVectorStoreAdmin{},
		Inspector:      fakeVectorStoreAdmin{},
		Collection:     "docs",
		AnswerModel:    "model",
		EmbeddingModel: "embed-model",
		DocumentsPath:  "/docs",
		MaxResults:     8,
	})
}

func TestNewRouter_Routes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{method: http.MethodPost, path: "/api/ask", body: `{"question": "What is up?"}`, wantStatus: http.StatusOK},
		{method: http.MethodPost, path: "/api/search", body: `{"query": "anything"}`, wantStatus: http.StatusOK},
		{method: http.MethodGet, path: "/api/status", wantStatus: http.StatusOK},
		{method: http.MethodGet, path: "/api/health", wantStatus: http.StatusOK},
		{method: http.MethodGet, path: "/api/ask", wantStatus: http.StatusMethodNotAllowed},
		{method: http.MethodPost, path: "/api/health", wantStatus: http.StatusMethodNotAllowed},
		{method: http.MethodGet, path: "/api/unknown", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var body *strings.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			} else {
				body = strings.NewReader("")
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestNewRouter_CORSHeaders(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("CORS headers should be set on responses")
	}
}
