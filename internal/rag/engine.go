package rag

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"docqa/internal/config"
	"docqa/internal/contextutil"
	"docqa/internal/llm"
	"docqa/internal/storage"
	"docqa/internal/vectorstore"
)

const (
	minQuestionLength = 3
	maxQuestionLength = 1000
)

// noContextAnswer is returned when retrieval finds nothing relevant.
const noContextAnswer = "I couldn't find any relevant information in the indexed documents to answer this question."

// Embedder generates embedding vectors for texts.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer generates text from a single-turn message.
type Completer interface {
	Complete(ctx context.Context, userMessage string, params llm.MessageParams) (string, error)
}

// Engine answers questions over the indexed documents.
type Engine interface {
	// Ask answers a question by retrieving relevant chunks and generating an answer.
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
	// Search performs retrieval only, returning matching chunks without generation.
	Search(ctx context.Context, req SearchRequest) ([]SearchMatch, error)
}

// Options carries the tuning parameters for an engine.
type Options struct {
	// SearchK is the chunk count for normal questions.
	SearchK int
	// SearchKComplex is the chunk count for complex questions.
	SearchKComplex int
	// MaxResults caps any requested chunk count.
	MaxResults int
	// MaxTokens is the generation budget for normal questions.
	MaxTokens int
	// MaxTokensComplex is the generation budget for complex questions.
	MaxTokensComplex int
	// Temperature controls output randomness.
	Temperature float32
	// Prompts holds the prompt templates.
	Prompts config.Prompts
}

// ragEngine implements the Engine interface.
type ragEngine struct {
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	chunkRepo   storage.ChunkStore
	llmClient   Completer
	opts        Options
	logger      *slog.Logger
}

// NewEngine creates a new RAG engine.
func NewEngine(
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	chunkRepo storage.ChunkStore,
	llmClient Completer,
	opts Options,
) Engine {
	if opts.SearchK <= 0 {
		opts.SearchK = 3
	}
	if opts.SearchKComplex <= 0 {
		opts.SearchKComplex = 5
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 8
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 800
	}
	if opts.MaxTokensComplex <= 0 {
		opts.MaxTokensComplex = 1200
	}
	defaults := config.DefaultPrompts()
	if opts.Prompts.System == "" {
		opts.Prompts.System = defaults.System
	}
	if opts.Prompts.ContextEntry == "" {
		opts.Prompts.ContextEntry = defaults.ContextEntry
	}
	if opts.Prompts.UserMessage == "" {
		opts.Prompts.UserMessage = defaults.UserMessage
	}
	if opts.Prompts.Standalone == "" {
		opts.Prompts.Standalone = defaults.Standalone
	}
	return &ragEngine{
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		chunkRepo:   chunkRepo,
		llmClient:   llmClient,
		opts:        opts,
		logger:      slog.Default(),
	}
}

// validateQuestion rejects questions outside the accepted length range.
func validateQuestion(question string) error {
	length := utf8.RuneCountInString(strings.TrimSpace(question))
	if length < minQuestionLength {
		return fmt.Errorf("question too short: minimum %d characters", minQuestionLength)
	}
	if length > maxQuestionLength {
		return fmt.Errorf("question too long: maximum %d characters", maxQuestionLength)
	}
	return nil
}

// Ask answers a question using retrieval-augmented generation.
func (e *ragEngine) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	req.Question = strings.TrimSpace(req.Question)
	if err := validateQuestion(req.Question); err != nil {
		return AskResponse{}, err
	}

	complex := isComplex(req.Question)

	if req.Standalone {
		return e.askStandalone(ctx, req, complex)
	}

	k := req.K
	if k <= 0 {
		k = e.opts.SearchK
		if complex {
			k = e.opts.SearchKComplex
		}
	}
	if k > e.opts.MaxResults {
		k = e.opts.MaxResults
	}

	maxTokens := e.opts.MaxTokens
	if complex {
		maxTokens = e.opts.MaxTokensComplex
	}

	logger.InfoContext(ctx, "question received",
		"question", req.Question,
		"complex", complex,
		"k", k,
		"sources", req.Sources,
		"ext", req.Ext,
	)

	scored, err := e.retrieve(ctx, req.Question, req.Sources, req.Ext, k)
	if err != nil {
		return AskResponse{}, err
	}

	if len(scored) == 0 {
		logger.InfoContext(ctx, "no relevant chunks found")
		return AskResponse{
			Answer:     noContextAnswer,
			References: []Reference{},
			Complex:    complex,
		}, nil
	}

	// Format context string
	var contextBuilder strings.Builder
	for i, chunk := range scored {
		contextBuilder.WriteString(fmt.Sprintf(e.opts.Prompts.ContextEntry, i+1, chunk.name, chunk.text))
	}
	contextString := contextBuilder.String()

	userMessage := fmt.Sprintf(e.opts.Prompts.UserMessage, contextString, req.Question)

	logger.DebugContext(ctx, "sending request to model",
		"context_length", len(contextString),
		"chunks_included", len(scored),
		"max_tokens", maxTokens,
	)

	answer, err := e.llmClient.Complete(ctx, userMessage, llm.MessageParams{
		System:      e.opts.Prompts.System,
		MaxTokens:   maxTokens,
		Temperature: e.opts.Temperature,
	})
	if err != nil {
		logger.ErrorContext(ctx, "model request failed", "error", err)
		return AskResponse{}, fmt.Errorf("failed to get model response: %w", err)
	}

	references := make([]Reference, 0, len(scored))
	for _, chunk := range scored {
		references = append(references, Reference{
			Source:     chunk.source,
			Name:       chunk.name,
			Page:       chunk.page,
			ChunkIndex: chunk.chunkIndex,
			Score:      chunk.scoreFinal,
		})
	}

	resp := AskResponse{
		Answer:     answer,
		References: references,
		Complex:    complex,
	}
	if req.Debug {
		resp.Debug = debugInfo(scored, k, maxTokens)
	}

	logger.InfoContext(ctx, "question answered",
		"chunks_used", len(scored),
		"answer_length", len(answer),
	)
	return resp, nil
}

// askStandalone sends the question to the model without retrieval.
func (e *ragEngine) askStandalone(ctx context.Context, req AskRequest, complex bool) (AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	maxTokens := e.opts.MaxTokens
	if complex {
		maxTokens = e.opts.MaxTokensComplex
	}

	userMessage := fmt.Sprintf(e.opts.Prompts.Standalone, req.Question)
	answer, err := e.llmClient.Complete(ctx, userMessage, llm.MessageParams{
		MaxTokens:   maxTokens,
		Temperature: e.opts.Temperature,
	})
	if err != nil {
		logger.ErrorContext(ctx, "model request failed", "error", err)
		return AskResponse{}, fmt.Errorf("failed to get model response: %w", err)
	}

	return AskResponse{
		Answer:     answer,
		References: []Reference{},
		Complex:    complex,
	}, nil
}

// Search performs retrieval only.
func (e *ragEngine) Search(ctx context.Context, req SearchRequest) ([]SearchMatch, error) {
	req.Query = strings.TrimSpace(req.Query)
	if err := validateQuestion(req.Query); err != nil {
		return nil, err
	}

	k := req.K
	if k <= 0 {
		k = e.opts.SearchKComplex
	}
	if k > e.opts.MaxResults {
		k = e.opts.MaxResults
	}

	scored, err := e.retrieve(ctx, req.Query, req.Sources, req.Ext, k)
	if err != nil {
		return nil, err
	}

	matches := make([]SearchMatch, 0, len(scored))
	for _, chunk := range scored {
		matches = append(matches, SearchMatch{
			Source:     chunk.source,
			Name:       chunk.name,
			Page:       chunk.page,
			ChunkIndex: chunk.chunkIndex,
			Score:      chunk.scoreFinal,
			Text:       chunk.text,
		})
	}
	return matches, nil
}

// scoredChunk carries a retrieved chunk through scoring.
type scoredChunk struct {
	pointID     string
	source      string
	name        string
	page        int
	chunkIndex  int
	text        string
	scoreVector float32
	scoreLex    float32
	scoreFinal  float32
}

// retrieve embeds the query, searches the vector store, fetches chunk texts,
// and reranks by blending vector similarity with lexical overlap.
func (e *ragEngine) retrieve(ctx context.Context, query string, sources []string, ext string, k int) ([]scoredChunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	embeddings, err := e.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		logger.ErrorContext(ctx, "failed to embed query", "error", err)
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}
	queryVector := embeddings[0]

	// With source filters, each source is searched separately and the results
	// are merged. Without filters a single unfiltered search suffices.
	filterSets := []vectorstore.Filters{{Ext: ext}}
	if len(sources) > 0 {
		filterSets = filterSets[:0]
		for _, source := range sources {
			filterSets = append(filterSets, vectorstore.Filters{Source: source, Ext: ext})
		}
	}

	var allResults []vectorstore.SearchResult
	var searchErr error
	failed := 0
	for _, filters := range filterSets {
		results, err := e.vectorStore.Search(ctx, e.collection, queryVector, k, filters)
		if err != nil {
			logger.ErrorContext(ctx, "vector search failed", "source", filters.Source, "error", err)
			searchErr = err
			failed++
			continue
		}
		allResults = append(allResults, results...)
	}
	// A partial failure across sources still yields results; when every
	// search failed the caller gets the error, not an empty answer.
	if failed == len(filterSets) && searchErr != nil {
		return nil, fmt.Errorf("failed to search vector store: %w", searchErr)
	}

	seen := make(map[string]bool, len(allResults))
	scored := make([]scoredChunk, 0, len(allResults))
	for _, result := range allResults {
		if seen[result.PointID] {
			continue
		}
		seen[result.PointID] = true

		chunk, err := e.chunkRepo.GetByID(ctx, result.PointID)
		if err != nil {
			logger.WarnContext(ctx, "failed to fetch chunk text", "chunk_id", result.PointID, "error", err)
			continue
		}

		source, _ := result.Meta["source"].(string)
		name, _ := result.Meta["name"].(string)
		lex := lexicalScore(query, chunk.Text, name)

		scored = append(scored, scoredChunk{
			pointID:     result.PointID,
			source:      source,
			name:        name,
			page:        chunk.Page,
			chunkIndex:  chunk.ChunkIndex,
			text:        chunk.Text,
			scoreVector: result.Score,
			scoreLex:    lex,
			scoreFinal:  result.Score + lex,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].scoreFinal > scored[j].scoreFinal
	})
	if len(scored) > k {
		scored = scored[:k]
	}

	logger.DebugContext(ctx, "retrieval completed", "results", len(scored), "k", k)
	return scored, nil
}

// debugInfo builds the debug payload from scored chunks.
func debugInfo(scored []scoredChunk, k, maxTokens int) *DebugInfo {
	retrieved := make([]RetrievedChunk, 0, len(scored))
	for i, chunk := range scored {
		retrieved = append(retrieved, RetrievedChunk{
			ChunkID:      chunk.pointID,
			Source:       chunk.source,
			ScoreVector:  chunk.scoreVector,
			ScoreLexical: chunk.scoreLex,
			ScoreFinal:   chunk.scoreFinal,
			Rank:         i + 1,
			Text:         chunk.text,
		})
	}
	return &DebugInfo{
		K:               k,
		MaxTokens:       maxTokens,
		RetrievedChunks: retrieved,
	}
}
