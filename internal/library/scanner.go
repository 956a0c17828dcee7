package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SupportedExtensions lists the document types the pipeline can extract text from.
var SupportedExtensions = map[string]struct{}{
	".pdf": {},
	".txt": {},
	".md":  {},
}

// ScannedFile represents a document file found during library scanning.
type ScannedFile struct {
	Path    string // Absolute file path
	RelPath string // Relative path from library root (forward slashes)
	Name    string // Base filename
	Ext     string // Lowercased extension including the dot
}

// Scanner walks a documents directory and reports supported files.
type Scanner struct {
	root string
}

// NewScanner creates a scanner rooted at the given documents directory.
// The directory must exist.
func NewScanner(root string) (*Scanner, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve documents path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("documents directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("documents path is not a directory: %s", abs)
	}

	return &Scanner{root: abs}, nil
}

// Root returns the absolute documents root path.
func (s *Scanner) Root() string {
	return s.root
}

// Scan walks the documents root and returns all supported files.
// Hidden directories (dot-prefixed) are skipped.
func (s *Scanner) Scan(ctx context.Context) ([]ScannedFile, error) {
	var scanned []ScannedFile

	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}

		// Check for context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			// Skip hidden directories (.git, .obsidian, editor state)
			if strings.HasPrefix(info.Name(), ".") && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := SupportedExtensions[ext]; !ok {
			return nil
		}

		relPath, err := filepath.Rel(s.root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}

		scanned = append(scanned, ScannedFile{
			Path:    path,
			RelPath: filepath.ToSlash(relPath),
			Name:    info.Name(),
			Ext:     ext,
		})
		return nil
	})

	if err != nil {
		return scanned, fmt.Errorf("failed to scan documents directory: %w", err)
	}

	return scanned, nil
}

// IsSupported reports whether the file at path has a supported extension.
func IsSupported(path string) bool {
	_, ok := SupportedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
