package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/freekicks/internal/domain/model"
)

// Sentinel kinds for dataset errors.
var (
	ErrDataValidation = errors.New("data validation failed")
	ErrDecode         = errors.New("dataset decode failed")
)

// ValidationKind classifies why a record was rejected.
type ValidationKind string

// Validation kinds.
const (
	KindMissing          ValidationKind = "missing"
	KindNonNumeric       ValidationKind = "non_numeric"
	KindUnmappedCategory ValidationKind = "unmapped_category"
	KindDuplicateID      ValidationKind = "duplicate_id"
	KindOutOfBounds      ValidationKind = "out_of_bounds"
)

// DataValidationError describes one rejected field of one record.
type DataValidationError struct {
	Index int    // position in the source array
	ID    string // raw num value, may be empty
	Field string // source field name
	Kind  ValidationKind
	Value string
}

func (e *DataValidationError) Error() string {
	id := e.ID
	if id == "" {
		id = "?"
	}
	return fmt.Sprintf("record %d (num=%s): field %q: %s (value %q)", e.Index, id, e.Field, e.Kind, e.Value)
}

// Is matches ErrDataValidation for every kind and model.ErrUnmappedCategory
// for unmapped categories.
func (e *DataValidationError) Is(target error) bool {
	if target == ErrDataValidation {
		return true
	}
	return e.Kind == KindUnmappedCategory && target == model.ErrUnmappedCategory
}

// ValidationErrors collects every rejected field of a load.
type ValidationErrors []*DataValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return fmt.Sprintf("%s: %d problem(s): %s", ErrDataValidation, len(v), strings.Join(parts, "; "))
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (v ValidationErrors) Unwrap() []error {
	out := make([]error, len(v))
	for i, e := range v {
		out[i] = e
	}
	return out
}

// Kinds counts the errors per kind.
func (v ValidationErrors) Kinds() map[ValidationKind]int {
	out := make(map[ValidationKind]int)
	for _, e := range v {
		out[e.Kind]++
	}
	return out
}
