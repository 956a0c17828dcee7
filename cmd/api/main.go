package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"docqa/internal/config"
	"docqa/internal/http"
	"docqa/internal/indexer"
	"docqa/internal/library"
	"docqa/internal/llm"
	"docqa/internal/rag"
	"docqa/internal/storage"
	"docqa/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	fileRepo := storage.NewFileRepo(db)
	chunkRepo := storage.NewChunkRepo(db)

	scanner, err := library.NewScanner(cfg.DocumentsPath)
	if err != nil {
		log.Fatalf("Failed to open documents directory: %v", err)
	}
	slog.Info("Documents directory ready", "path", scanner.Root())

	ctx := context.Background()

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Ensure collection exists with correct vector size
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.QdrantVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d", cfg.QdrantVectorSize)
	}
	slog.Info("Embedding client validated", "vector_size", cfg.QdrantVectorSize)

	chunker := indexer.NewChunker(cfg.Chunking.Size, cfg.Chunking.Overlap, cfg.Chunking.MinSize)
	pipeline := indexer.NewPipeline(
		scanner,
		fileRepo,
		chunkRepo,
		embedder,
		vectorStore,
		cfg.QdrantCollection,
		chunker,
	)

	llmClient := llm.NewAnthropicClient(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.AnthropicModel)

	ragEngine := rag.NewEngine(
		embedder,
		vectorStore,
		cfg.QdrantCollection,
		chunkRepo,
		llmClient,
		rag.Options{
			SearchK:          cfg.SearchK,
			SearchKComplex:   cfg.SearchKComplex,
			MaxResults:       cfg.MaxResults,
			MaxTokens:        cfg.MaxTokens,
			MaxTokensComplex: cfg.MaxTokensComplex,
			Temperature:      cfg.Temperature,
			Prompts:          cfg.Prompts,
		},
	)
	slog.Info("RAG engine initialized", "model", cfg.AnthropicModel)

	router := http.NewRouter(&http.Deps{
		RAGEngine:      ragEngine,
		Pipeline:       pipeline,
		Checker:        vectorStore,
		Inspector:      vectorStore,
		Collection:     cfg.QdrantCollection,
		AnswerModel:    cfg.AnthropicModel,
		EmbeddingModel: cfg.EmbeddingModelName,
		DocumentsPath:  scanner.Root(),
		MaxResults:     cfg.MaxResults,
	})

	// Start indexing in background after router is ready
	go func() {
		indexCtx := context.Background()
		slog.Info("Starting background indexing of documents")
		if _, err := pipeline.IndexAll(indexCtx, false); err != nil {
			slog.Error("Indexing completed with errors", "error", err)
		} else {
			slog.Info("Indexing completed successfully")
		}
	}()

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
