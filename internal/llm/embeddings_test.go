package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newEmbeddingsServer returns a fake embeddings API that records requests and
// answers with vectors of the given size.
func newEmbeddingsServer(t *testing.T, vectorSize int, requests *[]EmbeddingsRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}

		var req EmbeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		*requests = append(*requests, req)

		resp := EmbeddingsResponse{Data: make([]EmbeddingData, len(req.Input))}
		for i := range req.Input {
			vec := make([]float64, vectorSize)
			for j := range vec {
				vec[j] = float64(i) + 0.5
			}
			resp.Data[i] = EmbeddingData{Embedding: vec}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestEmbedTexts(t *testing.T) {
	var requests []EmbeddingsRequest
	server := newEmbeddingsServer(t, 4, &requests)
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "test-model", 4)

	vectors, err := client.EmbedTexts(context.Background(), []string{"one", "two"})
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("EmbedTexts() returned %d vectors, want 2", len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != 4 {
			t.Errorf("vector %d has size %d, want 4", i, len(vec))
		}
	}
	if len(requests) != 1 {
		t.Fatalf("server saw %d requests, want 1", len(requests))
	}
	if requests[0].Model != "test-model" {
		t.Errorf("request model = %s", requests[0].Model)
	}
}

func TestEmbedTexts_Batching(t *testing.T) {
	var requests []EmbeddingsRequest
	server := newEmbeddingsServer(t, 3, &requests)
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "test-model", 3)
	client.BatchSize = 2

	texts := []string{"a", "b", "c", "d", "e"}
	vectors, err := client.EmbedTexts(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}
	if len(vectors) != len(texts) {
		t.Fatalf("EmbedTexts() returned %d vectors, want %d", len(vectors), len(texts))
	}
	if len(requests) != 3 {
		t.Fatalf("server saw %d requests, want 3 batches", len(requests))
	}
	if len(requests[0].Input) != 2 || len(requests[2].Input) != 1 {
		t.Errorf("batch sizes = %d, %d, %d", len(requests[0].Input), len(requests[1].Input), len(requests[2].Input))
	}
}

func TestEmbedTexts_EmptyInput(t *testing.T) {
	client := NewEmbeddingsClient("http://localhost:0", "test-key", "test-model", 4)
	if _, err := client.EmbedTexts(context.Background(), nil); err == nil {
		t.Fatal("EmbedTexts() should reject empty input")
	}
}

func TestEmbedTexts_SizeMismatch(t *testing.T) {
	var requests []EmbeddingsRequest
	server := newEmbeddingsServer(t, 4, &requests)
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "test-model", 768)

	if _, err := client.EmbedTexts(context.Background(), []string{"one"}); err == nil {
		t.Fatal("EmbedTexts() should reject vectors of unexpected size")
	}
}

func TestEmbedTexts_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "test-model", 4)

	if _, err := client.EmbedTexts(context.Background(), []string{"one"}); err == nil {
		t.Fatal("EmbedTexts() should surface server errors")
	}
}

func TestEmbedTexts_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(EmbeddingsResponse{Data: []EmbeddingData{}})
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "test-key", "test-model", 4)

	if _, err := client.EmbedTexts(context.Background(), []string{"one"}); err == nil {
		t.Fatal("EmbedTexts() should reject a response with the wrong embedding count")
	}
}
