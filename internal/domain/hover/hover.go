// Package hover highlights one mark at a time: it dims the pitch, shows the
// tooltip and draws the trajectory of the highlighted kick.
package hover

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/freekicks/internal/domain/curve"
	"github.com/okian/freekicks/internal/domain/model"
	"github.com/okian/freekicks/internal/domain/transition"
	"github.com/okian/freekicks/pkg/logger"
	"github.com/okian/freekicks/pkg/metrics"
)

// Effect timings and styling.
const (
	DimOpacity    = 0.3
	EnterDuration = 200 * time.Millisecond
	PathFadeIn    = 300 * time.Millisecond
	LeaveDuration = 100 * time.Millisecond
	PathWidth     = 2.0
	PathFill      = "none"
)

// Timeline targets animated by the controller.
const (
	TargetBackground = "background"
	TargetTooltip    = "tooltip"
	TargetPath       = "path"
	Opacity          = "opacity"
)

// State of one mark.
type State int

// Mark states.
const (
	Idle State = iota
	Highlighted
)

func (s State) String() string {
	if s == Highlighted {
		return "highlighted"
	}
	return "idle"
}

// Surface projects data points and colors categories.
type Surface interface {
	Project(p model.Point) model.Point
	Color(category string) (string, error)
}

// Tooltip is the text box next to the chart.
type Tooltip struct {
	Lines   []string `json:"lines"`
	Display bool     `json:"display"`
}

// Path is the trajectory drawn for the highlighted record. It stays in place
// after the pointer leaves and fades out.
type Path struct {
	RecordID    int     `json:"record_id"`
	D           string  `json:"d"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"stroke_width"`
	Fill        string  `json:"fill"`
}

// Controller drives hover effects. It is not safe for concurrent use.
type Controller struct {
	surface  Surface
	timeline *transition.Timeline
	logger   logger.Logger

	current *model.Record
	tooltip Tooltip
	path    *Path
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an idle controller. The pitch starts opaque and the tooltip
// and path transparent.
func New(surface Surface, timeline *transition.Timeline, opts ...Option) *Controller {
	c := &Controller{surface: surface, timeline: timeline, logger: logger.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	timeline.Set(key(TargetBackground), 1)
	timeline.Set(key(TargetTooltip), 0)
	timeline.Set(key(TargetPath), 0)
	return c
}

func key(target string) transition.Key {
	return transition.Key{Target: target, Property: Opacity}
}

// Enter highlights rec. A previously highlighted mark returns to Idle and its
// path is replaced.
func (c *Controller) Enter(ctx context.Context, rec model.Record) error {
	stroke, err := c.surface.Color(rec.Category)
	if err != nil {
		return fmt.Errorf("hover record %d: %w", rec.ID, err)
	}

	event := "enter"
	if c.current != nil && c.current.ID != rec.ID {
		event = "replace"
	}

	tr := rec.Trajectory()
	pts := make([]model.Point, len(tr))
	for i, p := range tr {
		pts[i] = c.surface.Project(p)
	}

	c.timeline.Start(key(TargetBackground), DimOpacity, EnterDuration)

	c.tooltip = Tooltip{Lines: rec.TooltipLines(), Display: true}
	c.timeline.Start(key(TargetTooltip), 1, EnterDuration)

	c.path = &Path{
		RecordID:    rec.ID,
		D:           curve.Bundle(pts, rec.CurveTension).String(),
		Stroke:      stroke,
		StrokeWidth: PathWidth,
		Fill:        PathFill,
	}
	c.timeline.StartFrom(key(TargetPath), 0, 1, PathFadeIn)

	c.current = &rec
	metrics.RecordHoverEvent(event)
	c.logger.Debug(ctx, "hover "+event, logger.Int("record", rec.ID))
	return nil
}

// Leave returns rec to Idle. It reports false, and changes nothing, when rec
// is not the highlighted mark.
func (c *Controller) Leave(ctx context.Context, rec model.Record) bool {
	if c.current == nil || c.current.ID != rec.ID {
		return false
	}
	c.fadeOut()
	metrics.RecordHoverEvent("leave")
	c.logger.Debug(ctx, "hover leave", logger.Int("record", rec.ID))
	return true
}

// Forget runs the leave sequence when rec is highlighted. The renderer calls
// it for marks that exit.
func (c *Controller) Forget(rec model.Record) {
	if c.current == nil || c.current.ID != rec.ID {
		return
	}
	c.fadeOut()
	metrics.RecordHoverEvent("exit")
}

func (c *Controller) fadeOut() {
	c.timeline.Start(key(TargetBackground), 1, LeaveDuration)
	c.timeline.Start(key(TargetTooltip), 0, LeaveDuration)
	c.timeline.Start(key(TargetPath), 0, LeaveDuration)
	c.current = nil
}

// State returns the state of the mark of id.
func (c *Controller) State(id int) State {
	if c.current != nil && c.current.ID == id {
		return Highlighted
	}
	return Idle
}

// Highlighted returns the highlighted record.
func (c *Controller) Highlighted() (model.Record, bool) {
	if c.current == nil {
		return model.Record{}, false
	}
	return *c.current, true
}

// Tooltip returns the tooltip content.
func (c *Controller) Tooltip() Tooltip {
	t := c.tooltip
	t.Lines = append([]string(nil), c.tooltip.Lines...)
	return t
}

// Path returns the trajectory path, if one was ever drawn.
func (c *Controller) Path() (Path, bool) {
	if c.path == nil {
		return Path{}, false
	}
	return *c.path, true
}
