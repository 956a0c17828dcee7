package indexer

import (
	"strings"
	"unicode/utf8"

	"docqa/internal/extract"
)

// Default chunking parameters. Sizes are in runes, not bytes, for consistency
// with embedding token estimation.
const (
	DefaultChunkSize    = 600
	DefaultChunkOverlap = 100
	DefaultMinChunkSize = 50
)

// separators are tried in order when looking for a split point inside a
// window: paragraph break, line break, sentence end.
var separators = []string{"\n\n", "\n", ". "}

// Chunker splits extracted text into fixed-size overlapping windows,
// preferring to cut at paragraph, line, or sentence boundaries.
type Chunker struct {
	size    int
	overlap int
	minSize int
}

// NewChunker creates a chunker with the given window size and overlap.
// Non-positive values fall back to the defaults.
func NewChunker(size, overlap, minSize int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap <= 0 || overlap >= size {
		overlap = DefaultChunkOverlap
		if overlap >= size {
			overlap = size / 4
		}
	}
	if minSize <= 0 {
		minSize = DefaultMinChunkSize
	}
	return &Chunker{size: size, overlap: overlap, minSize: minSize}
}

// ChunkDocuments splits a sequence of extracted documents into chunks with a
// running index across the whole file. Page numbers carry through from the
// source documents.
func (c *Chunker) ChunkDocuments(docs []extract.Document) []Chunk {
	var chunks []Chunk
	for _, doc := range docs {
		for _, text := range c.Split(doc.Text) {
			chunks = append(chunks, Chunk{
				Index: len(chunks),
				Page:  doc.Page,
				Text:  text,
			})
		}
	}
	return chunks
}

// Split splits text into overlapping windows of at most the configured size.
// A trailing window smaller than the minimum chunk size is merged into the
// previous one rather than emitted on its own.
func (c *Chunker) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= c.size {
		return []string{text}
	}

	var splits []string
	start := 0

	for start < len(runes) {
		end := start + c.size
		if end >= len(runes) {
			splits = appendChunk(splits, string(runes[start:]), c.minSize)
			break
		}

		splitPoint := c.findSplitPoint(runes, start, end)
		splits = appendChunk(splits, string(runes[start:splitPoint]), c.minSize)

		// Step back by the overlap so adjacent windows share context
		next := splitPoint - c.overlap
		if next <= start {
			next = splitPoint
		}
		start = next
	}

	return splits
}

// findSplitPoint finds the best rune offset to end a window that spans
// [start, end). It prefers the last separator occurrence inside the window,
// falling back to a hard cut at end.
func (c *Chunker) findSplitPoint(runes []rune, start, end int) int {
	window := string(runes[start:end])

	for _, sep := range separators {
		byteIdx := strings.LastIndex(window, sep)
		if byteIdx <= 0 {
			continue
		}
		runeIdx := utf8.RuneCountInString(window[:byteIdx]) + utf8.RuneCountInString(sep)
		// A boundary inside the overlap region would make the next window
		// start before this one ends twice over; skip those.
		if runeIdx <= c.overlap {
			continue
		}
		return start + runeIdx
	}

	return end
}

// appendChunk appends a trimmed chunk, merging it into the previous chunk when
// it is below the minimum size.
func appendChunk(splits []string, chunk string, minSize int) []string {
	chunk = strings.TrimSpace(chunk)
	if chunk == "" {
		return splits
	}
	if utf8.RuneCountInString(chunk) < minSize && len(splits) > 0 {
		splits[len(splits)-1] = splits[len(splits)-1] + "\n" + chunk
		return splits
	}
	return append(splits, chunk)
}
