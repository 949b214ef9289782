// Package store defines the record-store abstraction for the post collection.
package store

import "github.com/studenthub/studenthub/internal/models"

// Provider is the interface for persisting the post collection. The
// collection is always loaded and saved whole; the service layer owns the
// read-mutate-save cycle.
type Provider interface {
	// Load returns the full collection. On a first run with no persisted
	// state it seeds and persists the demonstration dataset.
	Load() (*models.Collection, error)
	// Save overwrites the entire persisted representation.
	Save(*models.Collection) error
	// Close releases any underlying resources.
	Close() error
}
