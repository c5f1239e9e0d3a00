// Package storage holds the in-memory collection of stored strings.
package storage

import (
	"errors"

	"github.com/hyperjump/chikai/internal/metric"
	"github.com/hyperjump/chikai/internal/models"
)

// ErrPoisoned is returned once an operation panicked while holding the collection lock.
// The collection may be inconsistent; it stays unusable until Reset.
var ErrPoisoned = errors.New("storage lock poisoned")

// Storage defines the append-only collection and full-scan search over it.
type Storage interface {
	// Ingest appends contents in order as new items tagged with source.
	Ingest(source string, contents []string) ([]models.Item, error)
	// Search returns the contents of the k items closest to query under m.
	Search(query string, k int, m metric.Metric) ([]string, error)
	// SearchHits is Search with distances; it also returns the number of items scanned.
	SearchHits(query string, k int, m metric.Metric) ([]models.Hit, int, error)

	Items() ([]models.Item, error)
	Size() int
	Poisoned() bool
	// Reset clears all items and the poisoned state.
	Reset()
}
