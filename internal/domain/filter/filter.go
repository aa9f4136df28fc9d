// Package filter narrows the chart to one category chosen from a dropdown.
package filter

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/okian/freekicks/internal/domain/model"
	"github.com/okian/freekicks/internal/domain/render"
	"github.com/okian/freekicks/pkg/metrics"
)

// All selects every record.
const All = model.AllCategories

// ErrUnknownCategory is returned for a selection that is not an option.
var ErrUnknownCategory = errors.New("unknown category")

// Renderer redraws the chart for a record set.
type Renderer interface {
	Render(ctx context.Context, records []model.Record) (render.Diff, error)
}

// Options returns All followed by the distinct categories of records in
// lexicographic order.
func Options(records []model.Record) []string {
	seen := make(map[string]struct{})
	cats := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		cats = append(cats, r.Category)
	}
	sort.Strings(cats)
	return append([]string{All}, cats...)
}

// Apply returns the records of category, or all of them for All. The input
// is not modified and source order is kept.
func Apply(records []model.Record, category string) []model.Record {
	if category == All {
		out := make([]model.Record, len(records))
		copy(out, records)
		return out
	}
	out := make([]model.Record, 0)
	for _, r := range records {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// Controller holds the current selection of one chart.
type Controller struct {
	records  []model.Record
	options  []string
	valid    map[string]bool
	selected string
	renderer Renderer
}

// New creates a controller over records with All selected.
func New(records []model.Record, renderer Renderer) *Controller {
	opts := Options(records)
	valid := make(map[string]bool, len(opts))
	for _, o := range opts {
		valid[o] = true
	}
	return &Controller{records: records, options: opts, valid: valid, selected: All, renderer: renderer}
}

// Options returns a copy of the dropdown options.
func (c *Controller) Options() []string {
	return append([]string(nil), c.options...)
}

// Selected is the current selection.
func (c *Controller) Selected() string { return c.selected }

// Visible returns the records of the current selection.
func (c *Controller) Visible() []model.Record {
	return Apply(c.records, c.selected)
}

// Select changes the selection and re-renders. Unknown categories leave the
// chart unchanged.
func (c *Controller) Select(ctx context.Context, category string) (render.Diff, error) {
	if !c.valid[category] {
		return render.Diff{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	diff, err := c.renderer.Render(ctx, Apply(c.records, category))
	if err != nil {
		return render.Diff{}, err
	}
	c.selected = category
	metrics.RecordFilterChange(category)
	return diff, nil
}
