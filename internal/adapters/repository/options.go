package repository

import "github.com/okian/freekicks/internal/domain/model"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithRecords seeds the store.
func WithRecords(records []model.Record) Option {
	return func(s *MemoryStore) { s.pending = records }
}
