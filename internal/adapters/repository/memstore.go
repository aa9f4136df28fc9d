package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/freekicks/internal/domain/model"
	"github.com/okian/freekicks/pkg/metrics"
)

// MemoryStore keeps the dataset in memory with an id index and a category
// index. Records are copied on the way in and on the way out.
type MemoryStore struct {
	mu         sync.RWMutex
	records    []model.Record
	byID       map[int]int
	byCategory map[string][]int
	pending    []model.Record
}

// NewMemoryStore creates a store, optionally seeded with WithRecords.
func NewMemoryStore(opts ...Option) (*MemoryStore, error) {
	s := &MemoryStore{}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Replace(context.Background(), s.pending); err != nil {
		return nil, err
	}
	s.pending = nil
	return s, nil
}

// Replace swaps the whole dataset. Nothing changes when ids repeat.
func (s *MemoryStore) Replace(ctx context.Context, records []model.Record) error {
	byID := make(map[int]int, len(records))
	byCategory := make(map[string][]int)
	copied := make([]model.Record, len(records))
	for i, r := range records {
		if _, dup := byID[r.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateID, r.ID)
		}
		byID[r.ID] = i
		byCategory[r.Category] = append(byCategory[r.Category], i)
		copied[i] = r
	}

	s.mu.Lock()
	s.records, s.byID, s.byCategory = copied, byID, byCategory
	s.mu.Unlock()

	metrics.UpdateRecordsLoaded(len(copied))
	return nil
}

// Get returns the record with id.
func (s *MemoryStore) Get(ctx context.Context, id int) (model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return model.Record{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return s.records[i], nil
}

// All returns every record in source order.
func (s *MemoryStore) All(ctx context.Context) []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Record, len(s.records))
	copy(out, s.records)
	return out
}

// List returns every record in source order. It never fails.
func (s *MemoryStore) List(ctx context.Context) ([]model.Record, error) {
	return s.All(ctx), nil
}

// ByCategory returns the records of category in source order.
func (s *MemoryStore) ByCategory(ctx context.Context, category string) []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.byCategory[category]
	out := make([]model.Record, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.records[i])
	}
	return out
}

// Count returns the number of records.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
