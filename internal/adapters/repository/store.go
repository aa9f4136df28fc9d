// Package repository holds the loaded free-kick records.
package repository

import (
	"context"

	"github.com/okian/freekicks/internal/domain/model"
)

// Store provides read access to the loaded dataset.
type Store interface {
	// Get returns the record with id. Returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id int) (model.Record, error)

	// All returns every record in source order. Read failures yield an
	// empty slice; use List to see them.
	All(ctx context.Context) []model.Record

	// List returns every record in source order or the read error.
	List(ctx context.Context) ([]model.Record, error)

	// ByCategory returns the records of category in source order.
	ByCategory(ctx context.Context, category string) []model.Record

	// Count returns the number of records.
	Count(ctx context.Context) int
}

// ReplaceableStore is a Store whose dataset can be swapped as a whole.
type ReplaceableStore interface {
	Store

	// Replace swaps every record. Nothing changes on error.
	Replace(ctx context.Context, records []model.Record) error
}
