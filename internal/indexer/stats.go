package indexer

import (
	"context"
	"fmt"
	"math"
	"sort"
	"unicode/utf8"

	"docqa/internal/storage"
)

// TokensPerRune approximates token counting (4 chars per token).
const TokensPerRune = 4.0

// Summary reports the outcome of an IndexAll run.
type Summary struct {
	FilesScanned  int `json:"files_scanned"`
	FilesNew      int `json:"files_new"`
	FilesModified int `json:"files_modified"`
	FilesIndexed  int `json:"files_indexed"`
	FilesSkipped  int `json:"files_skipped"`
	FilesRemoved  int `json:"files_removed"`
	FilesFailed   int `json:"files_failed"`
	ChunksIndexed int `json:"chunks_indexed"`
}

// TrackingStats describes the current state of the file-tracking store.
type TrackingStats struct {
	// TotalFiles is the number of tracked files.
	TotalFiles int `json:"total_files"`
	// TotalChunks is the number of stored chunks.
	TotalChunks int `json:"total_chunks"`
	// TotalSize is the combined size of tracked files in bytes.
	TotalSize int64 `json:"total_size"`
	// Extensions breaks tracked files down by extension.
	Extensions map[string]int `json:"extensions"`
	// ChunkTokens contains statistics about estimated token counts per chunk.
	ChunkTokens ChunkTokenStats `json:"chunk_tokens"`
}

// ChunkTokenStats contains statistics about estimated token counts in chunks.
type ChunkTokenStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// Stats computes tracking statistics from the database.
func (p *Pipeline) Stats(ctx context.Context) (*TrackingStats, error) {
	tracked, err := p.fileRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked files: %w", err)
	}

	stats := &TrackingStats{
		TotalFiles: len(tracked),
		Extensions: make(map[string]int),
	}

	var tokenCounts []int
	for _, file := range tracked {
		stats.TotalSize += file.Size
		stats.Extensions[file.Ext]++
		stats.TotalChunks += file.ChunkCount

		ids, err := p.chunkRepo.ListIDsByFile(ctx, file.ID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			chunk, err := p.chunkRepo.GetByID(ctx, id)
			if err != nil {
				if err == storage.ErrNotFound {
					continue
				}
				return nil, err
			}
			tokenCounts = append(tokenCounts, estimateTokens(chunk.Text))
		}
	}

	stats.ChunkTokens = computeTokenStats(tokenCounts)
	return stats, nil
}

// estimateTokens approximates the token count of a text from its rune count.
func estimateTokens(text string) int {
	runeCount := utf8.RuneCountInString(text)
	tokens := int(math.Round(float64(runeCount) / TokensPerRune))
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// computeTokenStats computes min, max, mean, and p95 from token counts.
func computeTokenStats(tokenCounts []int) ChunkTokenStats {
	if len(tokenCounts) == 0 {
		return ChunkTokenStats{}
	}

	sorted := make([]int, len(tokenCounts))
	copy(sorted, tokenCounts)
	sort.Ints(sorted)

	sum := 0
	for _, count := range tokenCounts {
		sum += count
	}
	mean := float64(sum) / float64(len(tokenCounts))

	p95Index := int(math.Ceil(float64(len(sorted)) * 0.95))
	if p95Index >= len(sorted) {
		p95Index = len(sorted) - 1
	}

	return ChunkTokenStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100,
		P95:  sorted[p95Index],
	}
}

// FormatSize formats a byte count in human readable form.
func FormatSize(sizeBytes int64) string {
	if sizeBytes == 0 {
		return "0 B"
	}

	units := []string{"B", "KB", "MB", "GB"}
	size := float64(sizeBytes)
	i := 0
	for size >= 1024.0 && i < len(units)-1 {
		size /= 1024.0
		i++
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}
