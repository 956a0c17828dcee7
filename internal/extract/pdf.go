package extract

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// loadPDF extracts text from a PDF file, one document per page.
// Pages that fail text extraction are skipped; an error is returned only when
// the file itself cannot be opened or no page yields text.
func loadPDF(path string) ([]Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	totalPages := reader.NumPage()
	var docs []Document
	var lastErr error

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			lastErr = err
			continue
		}

		docs = append(docs, Document{
			Text: text,
			Page: pageNum,
		})
	}

	if len(docs) == 0 && lastErr != nil {
		return nil, fmt.Errorf("failed to extract text from PDF %s: %w", path, lastErr)
	}

	return docs, nil
}
