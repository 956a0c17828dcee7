package storage

import "time"

// FileRecord is the tracking record for a document file: a path mapped to the
// change fingerprint (size, mtime, content hash) observed the last time the file
// was indexed. A file is re-indexed if and only if its fingerprint changed.
type FileRecord struct {
	ID          string    // UUID derived from the absolute path
	Path        string    // Absolute file path
	Name        string    // Base filename
	Ext         string    // Lowercased extension including the dot (".pdf", ".txt", ".md")
	Size        int64     // File size in bytes
	MTime       int64     // Modification time (unix seconds)
	ContentHash string    // SHA256 hex string of file content
	ChunkCount  int       // Number of chunks produced at last indexing
	IndexedAt   time.Time // When the file was last indexed
}

// ChunkRecord is a chunk of extracted document text, stored so retrieval can
// return full text without round-tripping the vector store payload.
type ChunkRecord struct {
	ID         string // UUID (same as the Qdrant point ID)
	FileID     string // Foreign key to files.id
	ChunkIndex int    // Index within the document (starts at 0)
	Page       int    // Source page number for PDFs, 0 for flat text files
	Text       string // Chunk text content
}
