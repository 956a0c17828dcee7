package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"docqa/internal/config"
	"docqa/internal/indexer"
	"docqa/internal/library"
	"docqa/internal/llm"
	"docqa/internal/rag"
	"docqa/internal/storage"
	"docqa/internal/vectorstore"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Question answering over a local document collection",
	Long: `docqa indexes PDF, text, and markdown documents into a vector store
and answers questions about them using retrieval-augmented generation.

Configuration is read from environment variables and an optional .env file.
An optional docqa.yaml next to the .env overrides prompt templates and
chunking parameters.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(fileCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(clearCmd)
}

// app bundles the wired dependencies shared by the CLI commands.
type app struct {
	cfg         *config.Config
	db          *sql.DB
	fileRepo    *storage.FileRepo
	chunkRepo   *storage.ChunkRepo
	scanner     *library.Scanner
	vectorStore *vectorstore.QdrantStore
	embedder    *llm.EmbeddingsClient
	pipeline    *indexer.Pipeline
	engine      rag.Engine
}

// newApp loads configuration and wires the full stack. The Qdrant collection
// is created on first use.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// CLI output goes to stdout, logs to stderr
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	fileRepo := storage.NewFileRepo(db)
	chunkRepo := storage.NewChunkRepo(db)

	scanner, err := library.NewScanner(cfg.DocumentsPath)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		_ = db.Close()
		return nil, err
	}

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
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
	engine := rag.NewEngine(
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

	return &app{
		cfg:         cfg,
		db:          db,
		fileRepo:    fileRepo,
		chunkRepo:   chunkRepo,
		scanner:     scanner,
		vectorStore: vectorStore,
		embedder:    embedder,
		pipeline:    pipeline,
		engine:      engine,
	}, nil
}

func (a *app) Close() {
	_ = a.db.Close()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
