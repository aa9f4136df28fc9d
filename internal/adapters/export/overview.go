package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/freekicks/internal/domain/model"
)

// ErrNoRecords is returned when there is nothing to plot.
var ErrNoRecords = errors.New("no records to plot")

// Palette is an ordered category to color mapping.
type Palette interface {
	Domain() []string
	Color(category string) (string, error)
}

// OverviewOptions size the overview chart.
type OverviewOptions struct {
	Width   int
	Height  int
	DotSize float64
	InvertY bool
}

// DefaultOverviewOptions matches the chart surface.
func DefaultOverviewOptions() OverviewOptions {
	return OverviewOptions{Width: model.SurfaceWidth, Height: model.SurfaceHeight, DotSize: 6, InvertY: true}
}

var pitchGreen = drawing.ColorFromHex("438a25")

// hexColor parses #rgb or #rrggbb.
func hexColor(s string) drawing.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	return drawing.ColorFromHex(s)
}

// WriteOverview plots every record origin as a dot colored by category, one
// series per category in palette order, and writes a PNG.
func WriteOverview(w io.Writer, records []model.Record, palette Palette, opts OverviewOptions) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	byCat := make(map[string][]model.Record)
	for _, r := range records {
		byCat[r.Category] = append(byCat[r.Category], r)
	}

	var series []chart.Series
	for _, cat := range palette.Domain() {
		recs := byCat[cat]
		if len(recs) == 0 {
			continue
		}
		col, err := palette.Color(cat)
		if err != nil {
			return err
		}
		xs := make([]float64, len(recs))
		ys := make([]float64, len(recs))
		for i, r := range recs {
			xs[i] = r.Origin.X
			ys[i] = r.Origin.Y
			if !opts.InvertY {
				ys[i] = model.SurfaceHeight - r.Origin.Y
			}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    cat,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    opts.DotSize,
				DotColor:    hexColor(col),
			},
		})
	}
	if len(series) == 0 {
		return fmt.Errorf("%w: no record category is in the palette", ErrNoRecords)
	}

	ch := chart.Chart{
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 16}},
		Canvas:     chart.Style{FillColor: pitchGreen},
		XAxis:      chart.XAxis{Range: &chart.ContinuousRange{Min: 0, Max: model.SurfaceWidth}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: model.SurfaceHeight}},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("overview render: %w", err)
	}
	return nil
}
