package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/studenthub/studenthub/internal/apperr"
	"github.com/studenthub/studenthub/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS posts (
	id  INTEGER PRIMARY KEY,
	pos INTEGER NOT NULL,
	doc TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
`

// SQLite implements Provider on an embedded database. Each post is stored
// as a JSON document keyed by id; pos preserves the collection order. Save
// replaces the collection inside one transaction, so a reader never
// observes a half-written collection.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies the schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	// A single connection keeps writes strictly serialized.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Load reads the full collection, seeding the demonstration dataset when
// the database holds no counter yet.
func (s *SQLite) Load() (*models.Collection, error) {
	var nextID int
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'next_id'`).Scan(&nextID)
	if err == sql.ErrNoRows {
		seed := models.SeedCollection()
		if werr := s.Save(seed); werr != nil {
			return nil, werr
		}
		return seed, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read counter: %v", apperr.ErrStorage, err)
	}

	rows, err := s.db.Query(`SELECT doc FROM posts ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("%w: read posts: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	col := &models.Collection{Ideas: []models.Post{}, NextID: nextID}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("%w: scan post: %v", apperr.ErrStorage, err)
		}
		var p models.Post
		if err := json.Unmarshal([]byte(doc), &p); err != nil {
			return nil, fmt.Errorf("%w: decode post: %v", apperr.ErrStorage, err)
		}
		col.Ideas = append(col.Ideas, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate posts: %v", apperr.ErrStorage, err)
	}
	return col, nil
}

// Save replaces the persisted collection transactionally.
func (s *SQLite) Save(col *models.Collection) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin: %v", apperr.ErrStorage, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM posts`); err != nil {
		return fmt.Errorf("%w: clear posts: %v", apperr.ErrStorage, err)
	}
	for i, p := range col.Ideas {
		doc, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("%w: encode post %d: %v", apperr.ErrStorage, p.ID, err)
		}
		if _, err := tx.Exec(`INSERT INTO posts (id, pos, doc) VALUES (?, ?, ?)`, p.ID, i, string(doc)); err != nil {
			return fmt.Errorf("%w: insert post %d: %v", apperr.ErrStorage, p.ID, err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES ('next_id', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, col.NextID); err != nil {
		return fmt.Errorf("%w: save counter: %v", apperr.ErrStorage, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", apperr.ErrStorage, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error { return s.db.Close() }
