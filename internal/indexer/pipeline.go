package indexer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"docqa/internal/contextutil"
	"docqa/internal/extract"
	"docqa/internal/library"
	"docqa/internal/storage"
	"docqa/internal/vectorstore"
)

// Embedder generates embedding vectors for a batch of texts.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Pipeline orchestrates incremental indexing of documents into SQLite and Qdrant.
type Pipeline struct {
	scanner     *library.Scanner
	fileRepo    storage.FileStore
	chunkRepo   storage.ChunkStore
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	chunker     *Chunker
	logger      *slog.Logger
}

// NewPipeline creates a new indexing pipeline.
func NewPipeline(
	scanner *library.Scanner,
	fileRepo storage.FileStore,
	chunkRepo storage.ChunkStore,
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	chunker *Chunker,
) *Pipeline {
	if chunker == nil {
		chunker = NewChunker(0, 0, 0)
	}
	return &Pipeline{
		scanner:     scanner,
		fileRepo:    fileRepo,
		chunkRepo:   chunkRepo,
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		chunker:     chunker,
		logger:      slog.Default(),
	}
}

// IndexFile indexes a single document file.
// It classifies the file against its tracking record, skips unchanged files
// unless force is set, and otherwise extracts, chunks, embeds, and stores the
// content, replacing any chunks from a previous indexing of the same file.
// Returns the number of chunks stored (the tracked count when skipped).
func (p *Pipeline) IndexFile(ctx context.Context, path string, force bool) (int, Status, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if !library.IsSupported(path) {
		return 0, "", fmt.Errorf("unsupported file type: %s", path)
	}

	existing, err := p.fileRepo.GetByPath(ctx, path)
	if err != nil && err != storage.ErrNotFound {
		return 0, "", fmt.Errorf("failed to check tracking record: %w", err)
	}

	status, fp, err := Classify(path, existing)
	if err != nil {
		return 0, "", err
	}
	if status == StatusMissing {
		return 0, StatusMissing, fmt.Errorf("file not found: %s", path)
	}

	if status == StatusUnchanged && !force {
		logger.DebugContext(ctx, "skipping unchanged file", "path", path, "chunks", existing.ChunkCount)
		return existing.ChunkCount, StatusUnchanged, nil
	}

	docs, err := extract.Load(path)
	if err != nil {
		return 0, status, fmt.Errorf("failed to extract text: %w", err)
	}

	chunks := p.chunker.ChunkDocuments(docs)
	if len(chunks) == 0 {
		logger.WarnContext(ctx, "no content found in file", "path", path)
		// Track the file anyway so it isn't re-processed every run
		record, err := newFileRecord(path, fp, 0)
		if err != nil {
			return 0, status, err
		}
		if err := p.removeChunks(ctx, record.ID); err != nil {
			return 0, status, err
		}
		if err := p.fileRepo.Upsert(ctx, record); err != nil {
			return 0, status, fmt.Errorf("failed to upsert file record: %w", err)
		}
		return 0, status, nil
	}

	chunkTexts := make([]string, len(chunks))
	for i, chunk := range chunks {
		chunkTexts[i] = chunk.Text
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, chunkTexts)
	if err != nil {
		return 0, status, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, status, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	record, err := newFileRecord(path, fp, len(chunks))
	if err != nil {
		return 0, status, err
	}

	// Remove chunks from the previous indexing, including leftovers from an
	// earlier failed attempt, before writing new ones. The record ID is
	// derived from the path, so this works without a tracking record.
	if err := p.removeChunks(ctx, record.ID); err != nil {
		return 0, status, err
	}

	chunkRecords := make([]*storage.ChunkRecord, len(chunks))
	points := make([]vectorstore.Point, len(chunks))
	for i, chunk := range chunks {
		chunkID := uuid.New().String()

		chunkRecords[i] = &storage.ChunkRecord{
			ID:         chunkID,
			FileID:     record.ID,
			ChunkIndex: chunk.Index,
			Page:       chunk.Page,
			Text:       chunk.Text,
		}

		points[i] = vectorstore.Point{
			ID:  chunkID,
			Vec: embeddings[i],
			Meta: map[string]any{
				"file_id":     record.ID,
				"source":      record.Path,
				"name":        record.Name,
				"ext":         record.Ext,
				"page":        chunk.Page,
				"chunk_index": chunk.Index,
			},
		}
	}

	for _, chunkRecord := range chunkRecords {
		if err := p.chunkRepo.Insert(ctx, chunkRecord); err != nil {
			return 0, status, fmt.Errorf("failed to insert chunk: %w", err)
		}
	}

	if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
		return 0, status, fmt.Errorf("failed to upsert vectors: %w", err)
	}

	// The fingerprint is recorded only after the chunks reached both stores,
	// so a failed run is retried on the next pass instead of skipped as
	// unchanged.
	if err := p.fileRepo.Upsert(ctx, record); err != nil {
		return 0, status, fmt.Errorf("failed to upsert file record: %w", err)
	}

	logger.InfoContext(ctx, "indexed file", "path", path, "status", string(status), "chunks", len(chunks))
	return len(chunks), status, nil
}

// IndexAll scans the documents directory and indexes every supported file.
// Errors for individual files are logged but don't stop the run. Tracking
// records for files that no longer exist on disk are cleaned up afterwards.
func (p *Pipeline) IndexAll(ctx context.Context, force bool) (*Summary, error) {
	logger := contextutil.LoggerFromContext(ctx)

	scanned, err := p.scanner.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan documents directory: %w", err)
	}

	logger.InfoContext(ctx, "starting indexing", "total_files", len(scanned), "force", force)

	summary := &Summary{FilesScanned: len(scanned)}
	present := make([]string, 0, len(scanned))

	for _, file := range scanned {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		present = append(present, file.Path)

		chunkCount, status, err := p.IndexFile(ctx, file.Path, force)
		if err != nil {
			summary.FilesFailed++
			logger.ErrorContext(ctx, "failed to index file", "path", file.Path, "error", err)
			continue
		}

		switch status {
		case StatusUnchanged:
			if force {
				summary.FilesIndexed++
				summary.ChunksIndexed += chunkCount
			} else {
				summary.FilesSkipped++
			}
		case StatusNew:
			summary.FilesNew++
			summary.FilesIndexed++
			summary.ChunksIndexed += chunkCount
		case StatusModified:
			summary.FilesModified++
			summary.FilesIndexed++
			summary.ChunksIndexed += chunkCount
		}
	}

	removed, err := p.CleanupDeleted(ctx, present)
	if err != nil {
		logger.WarnContext(ctx, "failed to clean up deleted files", "error", err)
	}
	summary.FilesRemoved = len(removed)

	logger.InfoContext(ctx, "indexing completed",
		"scanned", summary.FilesScanned,
		"indexed", summary.FilesIndexed,
		"skipped", summary.FilesSkipped,
		"removed", summary.FilesRemoved,
		"failed", summary.FilesFailed,
	)

	if summary.FilesFailed > 0 {
		return summary, fmt.Errorf("indexing completed with %d errors", summary.FilesFailed)
	}
	return summary, nil
}

// CleanupDeleted removes tracking records and chunks for files that are no
// longer present on disk. present holds the absolute paths of files that
// still exist. Returns the paths that were removed.
func (p *Pipeline) CleanupDeleted(ctx context.Context, present []string) ([]string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	presentSet := make(map[string]struct{}, len(present))
	for _, path := range present {
		presentSet[path] = struct{}{}
	}

	tracked, err := p.fileRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked files: %w", err)
	}

	var removed []string
	for _, file := range tracked {
		if _, ok := presentSet[file.Path]; ok {
			continue
		}

		if err := p.removeChunks(ctx, file.ID); err != nil {
			logger.WarnContext(ctx, "failed to remove chunks for deleted file", "path", file.Path, "error", err)
			continue
		}
		if err := p.fileRepo.Delete(ctx, file.ID); err != nil {
			logger.WarnContext(ctx, "failed to remove tracking record", "path", file.Path, "error", err)
			continue
		}

		removed = append(removed, file.Path)
		logger.InfoContext(ctx, "removed deleted file from index", "path", file.Path)
	}

	return removed, nil
}

// ClearAll removes every tracked file, its chunks, and their vector store
// points.
func (p *Pipeline) ClearAll(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	tracked, err := p.fileRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tracked files: %w", err)
	}

	for _, file := range tracked {
		if err := p.removeChunks(ctx, file.ID); err != nil {
			return err
		}
		if err := p.fileRepo.Delete(ctx, file.ID); err != nil {
			return fmt.Errorf("failed to delete file record: %w", err)
		}
	}

	logger.InfoContext(ctx, "cleared index", "files", len(tracked))
	return nil
}

// removeChunks deletes the chunks of a file from both the vector store and
// SQLite. A vector store failure is logged but not fatal; the points get
// overwritten or orphaned, while SQLite remains the source of truth.
func (p *Pipeline) removeChunks(ctx context.Context, fileID string) error {
	logger := contextutil.LoggerFromContext(ctx)

	ids, err := p.chunkRepo.ListIDsByFile(ctx, fileID)
	if err != nil {
		return fmt.Errorf("failed to list chunk IDs: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	if err := p.vectorStore.Delete(ctx, p.collection, ids); err != nil {
		logger.WarnContext(ctx, "failed to delete points from vector store", "count", len(ids), "error", err)
	}

	if err := p.chunkRepo.DeleteByFile(ctx, fileID); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}

	return nil
}
