package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"docqa/internal/storage"
)

// Status classifies a file relative to its tracking record.
type Status string

const (
	StatusNew       Status = "new"
	StatusModified  Status = "modified"
	StatusUnchanged Status = "unchanged"
	StatusMissing   Status = "missing"
)

// Fingerprint is the cheap, comparable proxy for file content used to decide
// whether a file needs re-indexing.
type Fingerprint struct {
	Size  int64
	MTime int64
	Hash  string // SHA256 hex, computed lazily
}

// FileID derives a stable UUID from the absolute file path. The same path
// always maps to the same ID, so vector store points for a file stay
// addressable across runs.
func FileID(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+abs)).String()
}

// StatFingerprint reads the size and mtime of a file without hashing it.
func StatFingerprint(path string) (Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, err
	}
	return Fingerprint{
		Size:  info.Size(),
		MTime: info.ModTime().Unix(),
	}, nil
}

// HashFile computes the SHA256 hex digest of the file content.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Classify compares a file on disk against its tracking record and reports
// whether it is new, modified, or unchanged. The mtime and size are compared
// first; the content hash is only computed when they still match, to confirm
// the file really is unchanged.
func Classify(path string, record *storage.FileRecord) (Status, Fingerprint, error) {
	fp, err := StatFingerprint(path)
	if err != nil {
		if os.IsNotExist(err) {
			return StatusMissing, Fingerprint{}, nil
		}
		return "", Fingerprint{}, fmt.Errorf("failed to stat file: %w", err)
	}

	if record == nil {
		return StatusNew, fp, nil
	}

	if fp.MTime != record.MTime || fp.Size != record.Size {
		return StatusModified, fp, nil
	}

	// mtime and size match; confirm with the content hash
	fp.Hash, err = HashFile(path)
	if err != nil {
		return "", Fingerprint{}, err
	}
	if fp.Hash != record.ContentHash {
		return StatusModified, fp, nil
	}

	return StatusUnchanged, fp, nil
}

// newFileRecord builds a tracking record for a file from its fingerprint.
// The hash is computed here if Classify skipped it.
func newFileRecord(path string, fp Fingerprint, chunkCount int) (*storage.FileRecord, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	if fp.Hash == "" {
		fp.Hash, err = HashFile(abs)
		if err != nil {
			return nil, err
		}
	}

	return &storage.FileRecord{
		ID:          FileID(abs),
		Path:        abs,
		Name:        filepath.Base(abs),
		Ext:         strings.ToLower(filepath.Ext(abs)),
		Size:        fp.Size,
		MTime:       fp.MTime,
		ContentHash: fp.Hash,
		ChunkCount:  chunkCount,
	}, nil
}
