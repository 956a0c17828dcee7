package storage

import (
	"context"
	"fmt"
	"testing"
)

// seedFile inserts a file record so chunk foreign keys resolve.
func seedFile(t *testing.T, repo *FileRepo, id, path string) {
	t.Helper()
	if err := repo.Upsert(context.Background(), testFileRecord(id, path)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
}

func TestChunkRepo_InsertAndGet(t *testing.T) {
	db := newTestDB(t)
	fileRepo := NewFileRepo(db)
	repo := NewChunkRepo(db)
	ctx := context.Background()

	seedFile(t, fileRepo, "file-1", "/docs/a.pdf")

	chunk := &ChunkRecord{
		ID:         "chunk-1",
		FileID:     "file-1",
		ChunkIndex: 0,
		Page:       2,
		Text:       "chunk text",
	}
	if err := repo.Insert(ctx, chunk); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "chunk-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.FileID != "file-1" || got.Page != 2 || got.Text != "chunk text" {
		t.Errorf("GetByID() = %+v", got)
	}

	if _, err := repo.GetByID(ctx, "missing"); err != ErrNotFound {
		t.Errorf("GetByID() for missing chunk error = %v, want ErrNotFound", err)
	}
}

func TestChunkRepo_ListIDsByFile(t *testing.T) {
	db := newTestDB(t)
	fileRepo := NewFileRepo(db)
	repo := NewChunkRepo(db)
	ctx := context.Background()

	seedFile(t, fileRepo, "file-1", "/docs/a.txt")

	ids, err := repo.ListIDsByFile(ctx, "file-1")
	if err != nil {
		t.Fatalf("ListIDsByFile() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ListIDsByFile() on empty file = %v", ids)
	}

	// Insert out of order, expect chunk_index ordering
	for _, idx := range []int{2, 0, 1} {
		chunk := &ChunkRecord{
			ID:         fmt.Sprintf("chunk-%d", idx),
			FileID:     "file-1",
			ChunkIndex: idx,
			Text:       "text",
		}
		if err := repo.Insert(ctx, chunk); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	ids, err = repo.ListIDsByFile(ctx, "file-1")
	if err != nil {
		t.Fatalf("ListIDsByFile() error = %v", err)
	}
	want := []string{"chunk-0", "chunk-1", "chunk-2"}
	if len(ids) != len(want) {
		t.Fatalf("ListIDsByFile() returned %d ids, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
}

func TestChunkRepo_DeleteByFile(t *testing.T) {
	db := newTestDB(t)
	fileRepo := NewFileRepo(db)
	repo := NewChunkRepo(db)
	ctx := context.Background()

	seedFile(t, fileRepo, "file-1", "/docs/a.txt")
	seedFile(t, fileRepo, "file-2", "/docs/b.txt")

	for i, fileID := range []string{"file-1", "file-1", "file-2"} {
		chunk := &ChunkRecord{
			ID:         fmt.Sprintf("chunk-%d", i),
			FileID:     fileID,
			ChunkIndex: i,
			Text:       "text",
		}
		if err := repo.Insert(ctx, chunk); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	if err := repo.DeleteByFile(ctx, "file-1"); err != nil {
		t.Fatalf("DeleteByFile() error = %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}

	if _, err := repo.GetByID(ctx, "chunk-2"); err != nil {
		t.Errorf("chunk of other file should survive, got error %v", err)
	}
}
