package indexer

// Chunk is a window of extracted document text ready for embedding.
type Chunk struct {
	Index int    // Chunk index within the document (starts at 0)
	Page  int    // Source page number for PDFs, 0 otherwise
	Text  string // Chunk text content
}
