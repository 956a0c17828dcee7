package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Document is a unit of extracted text: a page for PDFs, the whole file for
// flat text formats.
type Document struct {
	Text string
	Page int // 1-based page number for PDFs, 0 otherwise
}

// Load extracts text from the file at path, dispatching on the extension.
// Returned documents have normalized whitespace; empty documents are dropped.
func Load(path string) ([]Document, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var docs []Document
	var err error
	switch ext {
	case ".pdf":
		docs, err = loadPDF(path)
	case ".txt":
		docs, err = loadText(path)
	case ".md":
		docs, err = loadMarkdown(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
	if err != nil {
		return nil, err
	}

	result := make([]Document, 0, len(docs))
	for _, doc := range docs {
		doc.Text = normalizeWhitespace(doc.Text)
		if doc.Text == "" {
			continue
		}
		result = append(result, doc)
	}
	return result, nil
}

// normalizeWhitespace collapses runs of spaces and drops empty lines while
// preserving paragraph breaks, so chunk boundaries land on real text.
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			// Collapse consecutive blank lines into a single paragraph break
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	// Trim a trailing paragraph break
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
