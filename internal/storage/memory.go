package storage

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/chikai/internal/metric"
	"github.com/hyperjump/chikai/internal/models"
	"github.com/hyperjump/chikai/internal/ranking"
)

// MemoryStorage is an in-memory Storage. Searches share a read lock and run
// concurrently; ingestion and reset take the write lock.
type MemoryStorage struct {
	mu       sync.RWMutex
	items    []models.Item
	poisoned atomic.Bool
	itemHook func(models.Item)
	now      func() time.Time
}

// StorageOption configures a MemoryStorage.
type StorageOption func(*MemoryStorage)

// WithItemHook registers fn to be called, under the write lock, for every item
// about to be appended. A panic in fn poisons the storage.
func WithItemHook(fn func(models.Item)) StorageOption {
	return func(s *MemoryStorage) { s.itemHook = fn }
}

// WithClock overrides the time source used for Item.CreatedAt.
func WithClock(now func() time.Time) StorageOption {
	return func(s *MemoryStorage) { s.now = now }
}

// NewMemoryStorage creates an empty storage.
func NewMemoryStorage(opts ...StorageOption) *MemoryStorage {
	s := &MemoryStorage{
		items: make([]models.Item, 0),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest appends contents as one batch. Items are fully built before any is
// appended, so a failed batch leaves no partial item behind.
func (s *MemoryStorage) Ingest(source string, contents []string) ([]models.Item, error) {
	created := s.now()
	batch := make([]models.Item, len(contents))
	for i, c := range contents {
		batch[i] = models.Item{
			ID:        uuid.New().String(),
			Content:   c,
			Source:    source,
			CreatedAt: created,
		}
	}

	err := s.write("ingest", func() {
		if s.itemHook != nil {
			for _, item := range batch {
				s.itemHook(item)
			}
		}
		s.items = append(s.items, batch...)
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// Search returns the contents of the k nearest items, nearest first.
func (s *MemoryStorage) Search(query string, k int, m metric.Metric) ([]string, error) {
	hits, _, err := s.SearchHits(query, k, m)
	if err != nil {
		return nil, err
	}
	return ranking.Contents(hits), nil
}

// SearchHits scans every item and returns the k nearest with their distances,
// together with the number of items scanned.
func (s *MemoryStorage) SearchHits(query string, k int, m metric.Metric) ([]models.Hit, int, error) {
	var (
		hits  []models.Hit
		total int
	)
	err := s.read("search", func() {
		total = len(s.items)
		hits = ranking.TopK(query, s.items, k, m)
	})
	if err != nil {
		return nil, 0, err
	}
	return hits, total, nil
}

// Items returns a copy of all items in insertion order.
func (s *MemoryStorage) Items() ([]models.Item, error) {
	var out []models.Item
	err := s.read("items", func() {
		out = make([]models.Item, len(s.items))
		copy(out, s.items)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Size returns the number of stored items.
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Poisoned reports whether a previous operation panicked while holding the lock.
func (s *MemoryStorage) Poisoned() bool {
	return s.poisoned.Load()
}

// Reset drops all items and clears the poisoned state.
func (s *MemoryStorage) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]models.Item, 0)
	s.poisoned.Store(false)
}

func (s *MemoryStorage) write(op string, fn func()) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guard(op, fn)
}

func (s *MemoryStorage) read(op string, fn func()) (err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guard(op, fn)
}

// guard runs fn with the lock already held. A panic in fn poisons the storage
// and is returned as an error instead of propagating.
func (s *MemoryStorage) guard(op string, fn func()) (err error) {
	if s.poisoned.Load() {
		return fmt.Errorf("%s: %w", op, ErrPoisoned)
	}
	defer func() {
		if r := recover(); r != nil {
			s.poisoned.Store(true)
			err = fmt.Errorf("%s: %w: panic: %v", op, ErrPoisoned, r)
		}
	}()
	fn()
	return nil
}
