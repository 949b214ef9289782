package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/studenthub/studenthub/internal/apperr"
	"github.com/studenthub/studenthub/internal/models"
)

// File implements Provider backed by a single JSON file. A mutex serializes
// writers so two concurrent saves cannot interleave and lose an update.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a file-backed store at path, creating the parent
// directory if needed.
func NewFile(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("store: resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("store: mkdir: %w", err)
	}
	return &File{path: abs}, nil
}

// Load reads the full collection. A missing file seeds the demonstration
// dataset; a corrupt file degrades to an empty collection with the counter
// reset, logged but not returned as an error.
func (f *File) Load() (*models.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		seed := models.SeedCollection()
		if werr := f.write(seed); werr != nil {
			return nil, werr
		}
		return seed, nil
	}
	if err != nil {
		slog.Error("store: read failed, starting empty", slog.String("path", f.path), slog.String("error", err.Error()))
		return &models.Collection{Ideas: []models.Post{}, NextID: 1}, nil
	}

	var col models.Collection
	if err := json.Unmarshal(data, &col); err != nil {
		slog.Error("store: corrupt data file, starting empty", slog.String("path", f.path), slog.String("error", err.Error()))
		return &models.Collection{Ideas: []models.Post{}, NextID: 1}, nil
	}
	if col.Ideas == nil {
		col.Ideas = []models.Post{}
	}
	if col.NextID < 1 {
		col.NextID = 1
	}
	return &col, nil
}

// Save overwrites the persisted collection. A write failure is returned to
// the caller as apperr.ErrStorage, never swallowed.
func (f *File) Save(col *models.Collection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(col)
}

// Close is a no-op for the file backend.
func (f *File) Close() error { return nil }

// write serializes the collection and replaces the data file atomically:
// temp file in the same directory, fsync, rename.
func (f *File) write(col *models.Collection) error {
	data, err := json.MarshalIndent(col, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", apperr.ErrStorage, err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".studenthub-tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp: %v", apperr.ErrStorage, err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("%w: write temp: %v", apperr.ErrStorage, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: fsync: %v", apperr.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp: %v", apperr.ErrStorage, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("%w: rename: %v", apperr.ErrStorage, err)
	}
	success = true
	return nil
}
