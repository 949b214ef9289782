package store

import (
	"path/filepath"
	"testing"

	"github.com/studenthub/studenthub/internal/models"
)

func tempSQLiteStore(t *testing.T) *SQLite {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "studenthub.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLiteLoad_SeedsOnFirstRun(t *testing.T) {
	st := tempSQLiteStore(t)

	col, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(col.Ideas) != 3 {
		t.Errorf("seeded ideas = %d, want 3", len(col.Ideas))
	}
	if col.NextID != 4 {
		t.Errorf("seeded nextId = %d, want 4", col.NextID)
	}
}

func TestSQLiteSaveAndLoad_PreservesOrder(t *testing.T) {
	st := tempSQLiteStore(t)

	col, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	col.Ideas = append([]models.Post{{
		ID:       col.NextID,
		Title:    "Front Post",
		Comments: []models.Comment{},
	}}, col.Ideas...)
	col.NextID++

	if err := st.Save(col); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Ideas[0].Title != "Front Post" {
		t.Errorf("front post = %q, insertion order not preserved", got.Ideas[0].Title)
	}
	if got.NextID != 5 {
		t.Errorf("nextId = %d, want 5", got.NextID)
	}
}

func TestSQLiteSave_ReplacesCollection(t *testing.T) {
	st := tempSQLiteStore(t)

	if _, err := st.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// A save of a smaller collection must not leave stale rows behind.
	col := &models.Collection{
		Ideas:  []models.Post{{ID: 9, Title: "Only One", Comments: []models.Comment{}}},
		NextID: 10,
	}
	if err := st.Save(col); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Ideas) != 1 {
		t.Errorf("ideas = %d, want 1", len(got.Ideas))
	}
	if got.Ideas[0].ID != 9 {
		t.Errorf("id = %d, want 9", got.Ideas[0].ID)
	}
}

func TestBackendsSeedIdentically(t *testing.T) {
	fileStore, _ := tempFileStore(t)
	sqliteStore := tempSQLiteStore(t)

	fromFile, err := fileStore.Load()
	if err != nil {
		t.Fatalf("file Load: %v", err)
	}
	fromSQLite, err := sqliteStore.Load()
	if err != nil {
		t.Fatalf("sqlite Load: %v", err)
	}

	if fromFile.NextID != fromSQLite.NextID {
		t.Errorf("nextId: file %d, sqlite %d", fromFile.NextID, fromSQLite.NextID)
	}
	if len(fromFile.Ideas) != len(fromSQLite.Ideas) {
		t.Fatalf("ideas: file %d, sqlite %d", len(fromFile.Ideas), len(fromSQLite.Ideas))
	}
	for i := range fromFile.Ideas {
		if fromFile.Ideas[i].ID != fromSQLite.Ideas[i].ID || fromFile.Ideas[i].Title != fromSQLite.Ideas[i].Title {
			t.Errorf("seed mismatch at %d: %+v vs %+v", i, fromFile.Ideas[i], fromSQLite.Ideas[i])
		}
	}
}
