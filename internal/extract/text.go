package extract

import (
	"fmt"
	"os"
)

// loadText reads a plain text file as a single document.
func loadText(path string) ([]Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	return []Document{{Text: string(content)}}, nil
}
