// Package chart wires the scene, renderer, hover and filter controllers of
// one viewer and snapshots their state as frames.
package chart

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/freekicks/internal/domain/filter"
	"github.com/okian/freekicks/internal/domain/hover"
	"github.com/okian/freekicks/internal/domain/model"
	"github.com/okian/freekicks/internal/domain/render"
	"github.com/okian/freekicks/internal/domain/scene"
	"github.com/okian/freekicks/internal/domain/transition"
	"github.com/okian/freekicks/pkg/logger"
)

// Chart is the interactive state of one viewer. It is not safe for
// concurrent use; the UI loop serializes access.
type Chart struct {
	scene    *scene.Scene
	timeline *transition.Timeline
	renderer *render.Renderer
	hover    *hover.Controller
	filter   *filter.Controller
	logger   logger.Logger
}

type options struct {
	now    func() time.Time
	radius float64
	enter  time.Duration
	logger logger.Logger
}

// Option configures a Chart.
type Option func(*options)

// WithClock replaces time.Now for every transition of the chart.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRadius sets the mark radius.
func WithRadius(r float64) Option {
	return func(o *options) { o.radius = r }
}

// WithEnterDuration sets the fade-in time of new marks.
func WithEnterDuration(d time.Duration) Option {
	return func(o *options) { o.enter = d }
}

// WithLogger sets the chart logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New builds a chart over a prepared scene and draws every record.
func New(ctx context.Context, sc *scene.Scene, records []model.Record, opts ...Option) (*Chart, error) {
	o := options{
		now:    time.Now,
		radius: render.DefaultRadius,
		enter:  render.DefaultEnterDuration,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if sc.Colors() == nil {
		return nil, &scene.SetupError{Component: "chart", Reason: "scene is not set up"}
	}

	tl := transition.New(transition.WithClock(o.now))
	c := &Chart{
		scene:    sc,
		timeline: tl,
		renderer: render.New(sc, tl,
			render.WithRadius(o.radius),
			render.WithEnterDuration(o.enter),
			render.WithLogger(o.logger),
		),
		hover:  hover.New(sc, tl, hover.WithLogger(o.logger)),
		logger: o.logger,
	}
	c.filter = filter.New(records, c.renderer)

	c.renderer.On(render.PointerEnter, c.hover.Enter)
	c.renderer.On(render.PointerLeave, func(ctx context.Context, rec model.Record) error {
		c.hover.Leave(ctx, rec)
		return nil
	})
	c.renderer.OnExit(c.hover.Forget)

	if _, err := c.renderer.Render(ctx, c.filter.Visible()); err != nil {
		return nil, fmt.Errorf("initial render: %w", err)
	}
	return c, nil
}

// Options returns the dropdown options.
func (c *Chart) Options() []string { return c.filter.Options() }

// Selected returns the dropdown selection.
func (c *Chart) Selected() string { return c.filter.Selected() }

// Select filters the chart to category.
func (c *Chart) Select(ctx context.Context, category string) (render.Diff, error) {
	return c.filter.Select(ctx, category)
}

// PointerEnter delivers a pointer-enter event to the mark of id.
func (c *Chart) PointerEnter(ctx context.Context, id int) error {
	return c.renderer.Dispatch(ctx, id, render.PointerEnter)
}

// PointerLeave delivers a pointer-leave event to the mark of id.
func (c *Chart) PointerLeave(ctx context.Context, id int) error {
	return c.renderer.Dispatch(ctx, id, render.PointerLeave)
}

// Highlighted returns the highlighted record.
func (c *Chart) Highlighted() (model.Record, bool) { return c.hover.Highlighted() }

// Frame snapshots the chart now.
func (c *Chart) Frame() Frame { return c.FrameAt(c.timeline.Now()) }

// SettledFrame snapshots the chart once every running transition is over.
func (c *Chart) SettledFrame() Frame {
	at := c.timeline.Now()
	if end := c.timeline.SettlesAt(); end.After(at) {
		at = end
	}
	return c.FrameAt(at)
}

// FrameAt snapshots the chart at time at.
func (c *Chart) FrameAt(at time.Time) Frame {
	f := Frame{
		Width:    c.scene.Width(),
		Height:   c.scene.Height(),
		Selected: c.filter.Selected(),
		Settled:  c.timeline.Settled(at),
		Background: BackgroundFrame{
			Background: c.scene.Background(),
			Fade:       c.state(hover.TargetBackground, hover.Opacity, 1, at),
		},
		Tooltip: TooltipFrame{
			Tooltip: c.hover.Tooltip(),
			Fade:    c.state(hover.TargetTooltip, hover.Opacity, 0, at),
		},
	}
	f.Background.Opacity = f.Background.Fade.Value

	marks := c.renderer.Marks()
	f.Marks = make([]MarkFrame, 0, len(marks))
	for _, m := range marks {
		f.Marks = append(f.Marks, MarkFrame{
			Mark:  m,
			State: c.hover.State(m.ID).String(),
			Fade:  c.state(render.Target(m.ID), render.OpacityProperty, 1, at),
		})
	}

	if p, ok := c.hover.Path(); ok {
		f.Path = &PathFrame{Path: p, Fade: c.state(hover.TargetPath, hover.Opacity, 0, at)}
	}
	return f
}

func (c *Chart) state(target, property string, def float64, at time.Time) transition.State {
	if t, ok := c.timeline.Get(transition.Key{Target: target, Property: property}); ok {
		return t.StateAt(at)
	}
	return transition.State{From: def, To: def, Value: def, Easing: transition.CubicInOut.Name}
}
