package indexer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"docqa/internal/storage"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileID_Stable(t *testing.T) {
	id1 := FileID("/docs/a.txt")
	id2 := FileID("/docs/a.txt")
	if id1 != id2 {
		t.Errorf("FileID() not stable: %s vs %s", id1, id2)
	}

	other := FileID("/docs/b.txt")
	if id1 == other {
		t.Error("FileID() should differ for different paths")
	}
}

func TestHashFile(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "a.txt", "hello")

	hash, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}
	// sha256("hello")
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if hash != want {
		t.Errorf("HashFile() = %s, want %s", hash, want)
	}

	if _, err := HashFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("HashFile() should fail for missing files")
	}
}

func TestClassify(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeTestFile(t, tmpDir, "a.txt", "content")

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	hash, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}

	matching := &storage.FileRecord{
		Size:        info.Size(),
		MTime:       info.ModTime().Unix(),
		ContentHash: hash,
	}

	tests := []struct {
		name   string
		record *storage.FileRecord
		want   Status
	}{
		{name: "no record", record: nil, want: StatusNew},
		{name: "matching record", record: matching, want: StatusUnchanged},
		{
			name: "size mismatch",
			record: &storage.FileRecord{
				Size:  matching.Size + 1,
				MTime: matching.MTime,
			},
			want: StatusModified,
		},
		{
			name: "mtime mismatch",
			record: &storage.FileRecord{
				Size:  matching.Size,
				MTime: matching.MTime - 60,
			},
			want: StatusModified,
		},
		{
			name: "hash mismatch despite stat match",
			record: &storage.FileRecord{
				Size:        matching.Size,
				MTime:       matching.MTime,
				ContentHash: "different",
			},
			want: StatusModified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, fp, err := Classify(path, tt.record)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if status != tt.want {
				t.Errorf("Classify() = %v, want %v", status, tt.want)
			}
			if status != StatusMissing && fp.Size != info.Size() {
				t.Errorf("fingerprint size = %d, want %d", fp.Size, info.Size())
			}
		})
	}
}

func TestClassify_Missing(t *testing.T) {
	status, _, err := Classify(filepath.Join(t.TempDir(), "missing.txt"), nil)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if status != StatusMissing {
		t.Errorf("Classify() = %v, want %v", status, StatusMissing)
	}
}

func TestNewFileRecord(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeTestFile(t, tmpDir, "Doc.PDF", "fake pdf content")

	fp, err := StatFingerprint(path)
	if err != nil {
		t.Fatal(err)
	}

	record, err := newFileRecord(path, fp, 5)
	if err != nil {
		t.Fatalf("newFileRecord() error = %v", err)
	}

	if record.ID != FileID(path) {
		t.Errorf("ID = %s, want FileID-derived", record.ID)
	}
	if record.Name != "Doc.PDF" {
		t.Errorf("Name = %s", record.Name)
	}
	if record.Ext != ".pdf" {
		t.Errorf("Ext = %s, want lowercased .pdf", record.Ext)
	}
	if record.ChunkCount != 5 {
		t.Errorf("ChunkCount = %d, want 5", record.ChunkCount)
	}
	if record.ContentHash == "" {
		t.Error("ContentHash should be computed when the fingerprint omits it")
	}
	if !filepath.IsAbs(record.Path) {
		t.Errorf("Path should be absolute: %s", record.Path)
	}
}

func TestStatFingerprint(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeTestFile(t, tmpDir, "a.txt", "12345")

	fp, err := StatFingerprint(path)
	if err != nil {
		t.Fatalf("StatFingerprint() error = %v", err)
	}
	if fp.Size != 5 {
		t.Errorf("Size = %d, want 5", fp.Size)
	}
	if fp.MTime == 0 || time.Unix(fp.MTime, 0).After(time.Now().Add(time.Minute)) {
		t.Errorf("MTime = %d looks wrong", fp.MTime)
	}
	if fp.Hash != "" {
		t.Error("StatFingerprint() must not hash the file")
	}
}
