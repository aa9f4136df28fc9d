// Package dataset parses the free-kick dataset into validated records.
//
// Every problem is reported at load time; a dataset with any invalid record
// is rejected as a whole so nothing is rendered with undefined positions or
// colors.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/okian/freekicks/internal/domain/model"
	"github.com/okian/freekicks/pkg/logger"
)

// ErrEmpty is returned for a dataset without records.
var ErrEmpty = errors.New("dataset has no records")

// CategorySet reports whether a category has a color mapping.
type CategorySet interface {
	Has(category string) bool
}

// rawRecord mirrors one entry of the source JSON.
type rawRecord struct {
	Num     flexNumber `json:"num"`
	X       flexNumber `json:"x"`
	Y       flexNumber `json:"y"`
	X2      flexNumber `json:"x2"`
	Y2      flexNumber `json:"y2"`
	Curve   flexNumber `json:"curve"`
	Club    string     `json:"club"`
	X3      flexNumber `json:"x3"`
	Y3      flexNumber `json:"y3"`
	Season  string     `json:"season"`
	Fixture string     `json:"fixture"`
}

// checkedRecord holds coerced values for tag-based validation. Bounds match
// model.SurfaceWidth and model.SurfaceHeight.
type checkedRecord struct {
	X       float64 `json:"x" validate:"gte=0,lte=700"`
	Y       float64 `json:"y" validate:"gte=0,lte=590"`
	X2      float64 `json:"x2" validate:"gte=0,lte=700"`
	Y2      float64 `json:"y2" validate:"gte=0,lte=590"`
	X3      float64 `json:"x3" validate:"gte=0,lte=700"`
	Y3      float64 `json:"y3" validate:"gte=0,lte=590"`
	Curve   float64 `json:"curve" validate:"gte=0,lte=1"`
	Club    string  `json:"club" validate:"required"`
	Season  string  `json:"season" validate:"required"`
	Fixture string  `json:"fixture" validate:"required"`
}

// Loader turns dataset bytes into records.
type Loader struct {
	domain   CategorySet
	validate *validator.Validate
	logger   logger.Logger
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithLogger sets the loader logger.
func WithLogger(l logger.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// NewLoader creates a loader that accepts only categories in domain.
func NewLoader(domain CategorySet, opts ...Option) *Loader {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	l := &Loader{
		domain:   domain,
		validate: v,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile reads and parses the dataset at path.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrDecode, path, err)
	}
	return l.Load(ctx, data)
}

// LoadReader reads and parses the dataset from r.
func (l *Loader) LoadReader(ctx context.Context, r io.Reader) ([]model.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrDecode, err)
	}
	return l.Load(ctx, data)
}

// Load parses data. It returns ValidationErrors when any record is invalid.
func (l *Loader) Load(ctx context.Context, data []byte) ([]model.Record, error) {
	var rows []rawRecord
	if err := sonic.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	var problems ValidationErrors
	records := make([]model.Record, 0, len(rows))
	seen := make(map[int]int, len(rows))

	for i, row := range rows {
		rec, errs := l.parse(ctx, i, row)
		if len(errs) == 0 {
			if first, dup := seen[rec.ID]; dup {
				errs = append(errs, &DataValidationError{
					Index: i, ID: row.Num.raw, Field: "num", Kind: KindDuplicateID,
					Value: fmt.Sprintf("%d (first at %d)", rec.ID, first),
				})
			} else {
				seen[rec.ID] = i
			}
		}
		if len(errs) > 0 {
			problems = append(problems, errs...)
			continue
		}
		records = append(records, rec)
	}

	if len(problems) > 0 {
		l.logger.Warn(ctx, "dataset rejected",
			logger.Int("rows", len(rows)),
			logger.Int("problems", len(problems)),
		)
		return nil, problems
	}

	l.logger.Debug(ctx, "dataset loaded", logger.Int("records", len(records)))
	return records, nil
}

func (l *Loader) parse(ctx context.Context, index int, row rawRecord) (model.Record, []*DataValidationError) {
	var errs []*DataValidationError
	reported := make(map[string]bool)
	fail := func(field string, kind ValidationKind, value string) {
		reported[field] = true
		errs = append(errs, &DataValidationError{Index: index, ID: row.Num.raw, Field: field, Kind: kind, Value: value})
	}

	id := 0
	if row.Num.missing() {
		fail("num", KindMissing, "")
	} else if v, err := row.Num.int(); err != nil {
		fail("num", KindNonNumeric, row.Num.raw)
	} else {
		id = v
	}

	numeric := func(field string, n flexNumber) float64 {
		if n.missing() {
			fail(field, KindMissing, "")
			return 0
		}
		v, err := n.float()
		if err != nil {
			fail(field, KindNonNumeric, n.raw)
			return 0
		}
		return v
	}

	checked := checkedRecord{
		X:       numeric("x", row.X),
		Y:       numeric("y", row.Y),
		X2:      numeric("x2", row.X2),
		Y2:      numeric("y2", row.Y2),
		X3:      numeric("x3", row.X3),
		Y3:      numeric("y3", row.Y3),
		Curve:   numeric("curve", row.Curve),
		Club:    strings.TrimSpace(row.Club),
		Season:  strings.TrimSpace(row.Season),
		Fixture: strings.TrimSpace(row.Fixture),
	}

	if err := l.validate.StructCtx(ctx, checked); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			fail("", KindNonNumeric, err.Error())
		}
		for _, fe := range fieldErrs {
			if reported[fe.Field()] {
				continue
			}
			kind := KindOutOfBounds
			if fe.Tag() == "required" {
				kind = KindMissing
			}
			fail(fe.Field(), kind, fmt.Sprint(fe.Value()))
		}
	}

	if checked.Club != "" && (l.domain == nil || !l.domain.Has(checked.Club)) {
		fail("club", KindUnmappedCategory, checked.Club)
	}

	if len(errs) > 0 {
		return model.Record{}, errs
	}
	return model.Record{
		ID:           id,
		Origin:       model.Point{X: checked.X, Y: checked.Y},
		Control:      model.Point{X: checked.X2, Y: checked.Y2},
		Target:       model.Point{X: checked.X3, Y: checked.Y3},
		CurveTension: checked.Curve,
		Category:     checked.Club,
		SeasonLabel:  checked.Season,
		FixtureLabel: checked.Fixture,
	}, nil
}
