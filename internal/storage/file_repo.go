package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_file_store.go -package=mocks docqa/internal/storage FileStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// FileStore defines the interface for file-tracking operations.
type FileStore interface {
	// GetByPath gets a file record by its absolute path.
	// Returns nil and ErrNotFound if not found.
	GetByPath(ctx context.Context, path string) (*FileRecord, error)
	// Upsert inserts a new file record or updates an existing one,
	// refreshing indexed_at.
	Upsert(ctx context.Context, file *FileRecord) error
	// Delete removes a file record by ID. Chunks cascade.
	Delete(ctx context.Context, id string) error
	// ListAll returns all tracked files ordered by path.
	ListAll(ctx context.Context) ([]FileRecord, error)
}

// FileRepo provides methods for file-tracking operations.
// It implements the FileStore interface.
type FileRepo struct {
	db *sql.DB
}

// NewFileRepo creates a new FileRepo.
func NewFileRepo(db *sql.DB) *FileRepo {
	return &FileRepo{db: db}
}

// DB returns the underlying database handle.
func (r *FileRepo) DB() *sql.DB {
	return r.db
}

// GetByPath gets a file record by its absolute path.
// Returns nil and ErrNotFound if not found.
func (r *FileRepo) GetByPath(ctx context.Context, path string) (*FileRecord, error) {
	var file FileRecord
	var indexedAtStr string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, path, name, ext, size, mtime, content_hash, chunk_count, indexed_at FROM files WHERE path = ?",
		path,
	).Scan(&file.ID, &file.Path, &file.Name, &file.Ext, &file.Size, &file.MTime, &file.ContentHash, &file.ChunkCount, &indexedAtStr)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query file: %w", err)
	}

	file.IndexedAt, err = parseSQLiteTime(indexedAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse indexed_at timestamp: %w", err)
	}

	return &file, nil
}

// Upsert inserts a new file record or updates an existing one.
// The record's ID must be set before calling; on conflict by path the
// fingerprint columns are refreshed and indexed_at is reset.
func (r *FileRepo) Upsert(ctx context.Context, file *FileRecord) error {
	if file.ID == "" {
		return fmt.Errorf("file ID must be set before upsert")
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO files (id, path, name, ext, size, mtime, content_hash, chunk_count, indexed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (path) DO UPDATE SET
		 size = excluded.size, mtime = excluded.mtime, content_hash = excluded.content_hash,
		 chunk_count = excluded.chunk_count, indexed_at = CURRENT_TIMESTAMP`,
		file.ID, file.Path, file.Name, file.Ext, file.Size, file.MTime, file.ContentHash, file.ChunkCount,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert file: %w", err)
	}

	return nil
}

// Delete removes a file record by ID. Associated chunks are removed by the
// ON DELETE CASCADE constraint.
func (r *FileRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM files WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// ListAll returns all tracked files ordered by path.
func (r *FileRepo) ListAll(ctx context.Context) ([]FileRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, path, name, ext, size, mtime, content_hash, chunk_count, indexed_at FROM files ORDER BY path",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var files []FileRecord
	for rows.Next() {
		var file FileRecord
		var indexedAtStr string
		if err := rows.Scan(&file.ID, &file.Path, &file.Name, &file.Ext, &file.Size, &file.MTime, &file.ContentHash, &file.ChunkCount, &indexedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}

		file.IndexedAt, err = parseSQLiteTime(indexedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse indexed_at timestamp: %w", err)
		}

		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return files, nil
}

// parseSQLiteTime parses a SQLite DATETIME string in either of the formats
// the driver produces.
func parseSQLiteTime(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
