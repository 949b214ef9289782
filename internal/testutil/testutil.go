// Package testutil provides shared test helpers for setting up record stores.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/studenthub/studenthub/internal/store"
)

// FileStore creates a file-backed store in a temp directory that is
// automatically cleaned up.
func FileStore(t *testing.T) *store.File {
	t.Helper()
	st, err := store.NewFile(filepath.Join(t.TempDir(), "studenthub.json"))
	if err != nil {
		t.Fatal(err)
	}
	return st
}

// SQLiteStore creates a temporary SQLite-backed store that is automatically
// cleaned up.
func SQLiteStore(t *testing.T) *store.SQLite {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "studenthub.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}
