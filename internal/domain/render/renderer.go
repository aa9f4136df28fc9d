// Package render reconciles the visible marks of the chart against the
// records that should be shown.
package render

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/freekicks/internal/domain/model"
	"github.com/okian/freekicks/internal/domain/transition"
	"github.com/okian/freekicks/pkg/logger"
	"github.com/okian/freekicks/pkg/metrics"
)

// Mark styling.
const (
	DefaultRadius        = 12.0
	DefaultEnterDuration = 2000 * time.Millisecond
	Stroke               = "#000"
	StrokeWidth          = 1.0
	OpacityProperty      = "opacity"
)

// Event names a pointer event on a mark.
type Event string

// Pointer events.
const (
	PointerEnter Event = "pointerenter"
	PointerLeave Event = "pointerleave"
)

// Handler reacts to an event on the mark of a record.
type Handler func(ctx context.Context, rec model.Record) error

// Surface projects data points and colors categories.
type Surface interface {
	Project(p model.Point) model.Point
	Color(category string) (string, error)
}

// Mark is the circle drawn for one record.
type Mark struct {
	Record      model.Record `json:"-"`
	ID          int          `json:"id"`
	CX          float64      `json:"cx"`
	CY          float64      `json:"cy"`
	R           float64      `json:"r"`
	Fill        string       `json:"fill"`
	Stroke      string       `json:"stroke"`
	StrokeWidth float64      `json:"stroke_width"`
}

// Diff lists the ids touched by one Render call.
type Diff struct {
	Entered []int `json:"entered"`
	Updated []int `json:"updated"`
	Exited  []int `json:"exited"`
}

// Renderer owns the marks of one chart. It is not safe for concurrent use.
type Renderer struct {
	surface  Surface
	timeline *transition.Timeline
	radius   float64
	enter    time.Duration
	logger   logger.Logger

	order    []int
	marks    map[int]*Mark
	attached map[int]map[Event]Handler
	handlers map[Event]Handler
	onExit   []func(rec model.Record)
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRadius sets the circle radius.
func WithRadius(r float64) Option {
	return func(rn *Renderer) {
		if r > 0 {
			rn.radius = r
		}
	}
}

// WithEnterDuration sets the fade-in time of new marks.
func WithEnterDuration(d time.Duration) Option {
	return func(rn *Renderer) {
		if d >= 0 {
			rn.enter = d
		}
	}
}

// WithLogger sets the renderer logger.
func WithLogger(l logger.Logger) Option {
	return func(rn *Renderer) {
		if l != nil {
			rn.logger = l
		}
	}
}

// New creates a renderer drawing on surface and animating on timeline.
func New(surface Surface, timeline *transition.Timeline, opts ...Option) *Renderer {
	rn := &Renderer{
		surface:  surface,
		timeline: timeline,
		radius:   DefaultRadius,
		enter:    DefaultEnterDuration,
		logger:   logger.Nop(),
		marks:    make(map[int]*Mark),
		attached: make(map[int]map[Event]Handler),
		handlers: make(map[Event]Handler),
	}
	for _, opt := range opts {
		opt(rn)
	}
	return rn
}

// Target is the timeline target of the mark for id.
func Target(id int) string { return "mark:" + strconv.Itoa(id) }

// On sets the handler for event. It replaces any previous handler for the
// same event and is attached to every mark on the next Render.
func (rn *Renderer) On(event Event, h Handler) {
	rn.handlers[event] = h
}

// OnExit registers fn to run for every mark removed by Render.
func (rn *Renderer) OnExit(fn func(rec model.Record)) {
	rn.onExit = append(rn.onExit, fn)
}

// Render makes the visible marks match records, keyed by record id. When a
// record cannot be colored nothing changes and the error wraps
// model.ErrUnmappedCategory.
func (rn *Renderer) Render(ctx context.Context, records []model.Record) (Diff, error) {
	fills := make(map[int]string, len(records))
	want := make([]model.Record, 0, len(records))
	for _, rec := range records {
		if _, dup := fills[rec.ID]; dup {
			continue
		}
		fill, err := rn.surface.Color(rec.Category)
		if err != nil {
			return Diff{}, fmt.Errorf("render record %d: %w", rec.ID, err)
		}
		fills[rec.ID] = fill
		want = append(want, rec)
	}

	var diff Diff
	kept := make([]int, 0, len(rn.order))
	for _, id := range rn.order {
		if _, ok := fills[id]; ok {
			kept = append(kept, id)
			continue
		}
		diff.Exited = append(diff.Exited, id)
	}
	for _, id := range diff.Exited {
		rec := rn.marks[id].Record
		delete(rn.marks, id)
		delete(rn.attached, id)
		rn.timeline.Cancel(Target(id))
		for _, fn := range rn.onExit {
			fn(rec)
		}
	}
	rn.order = kept

	for _, rec := range want {
		opacity := transition.Key{Target: Target(rec.ID), Property: OpacityProperty}
		m, ok := rn.marks[rec.ID]
		if ok {
			// Kept marks fade to 1 again from wherever they are.
			rn.timeline.Start(opacity, 1, rn.enter)
			diff.Updated = append(diff.Updated, rec.ID)
		} else {
			m = &Mark{ID: rec.ID}
			rn.marks[rec.ID] = m
			rn.order = append(rn.order, rec.ID)
			rn.timeline.StartFrom(opacity, 0, 1, rn.enter)
			diff.Entered = append(diff.Entered, rec.ID)
		}
		pos := rn.surface.Project(rec.Origin)
		m.Record = rec
		m.CX, m.CY = pos.X, pos.Y
		m.R = rn.radius
		m.Fill = fills[rec.ID]
		m.Stroke = Stroke
		m.StrokeWidth = StrokeWidth
	}

	rn.attach()

	metrics.RecordRender(len(diff.Entered), len(diff.Exited), len(rn.order))
	rn.logger.Debug(ctx, "rendered",
		logger.Int("entered", len(diff.Entered)),
		logger.Int("updated", len(diff.Updated)),
		logger.Int("exited", len(diff.Exited)),
	)
	return diff, nil
}

// attach binds the current handlers to every visible mark, replacing by
// event name.
func (rn *Renderer) attach() {
	for _, id := range rn.order {
		bound, ok := rn.attached[id]
		if !ok {
			bound = make(map[Event]Handler, len(rn.handlers))
			rn.attached[id] = bound
		}
		for ev, h := range rn.handlers {
			bound[ev] = h
		}
	}
}

// Dispatch delivers event to the mark of id and returns the handler error.
func (rn *Renderer) Dispatch(ctx context.Context, id int, event Event) error {
	m, ok := rn.marks[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMark, id)
	}
	if h := rn.attached[id][event]; h != nil {
		return h(ctx, m.Record)
	}
	return nil
}

// HandlerCount returns how many handlers are bound to the mark of id.
func (rn *Renderer) HandlerCount(id int) int {
	return len(rn.attached[id])
}

// Marks returns copies of the visible marks in drawing order.
func (rn *Renderer) Marks() []Mark {
	out := make([]Mark, 0, len(rn.order))
	for _, id := range rn.order {
		out = append(out, *rn.marks[id])
	}
	return out
}

// Mark returns the visible mark of id.
func (rn *Renderer) Mark(id int) (Mark, bool) {
	m, ok := rn.marks[id]
	if !ok {
		return Mark{}, false
	}
	return *m, true
}

// Len is the number of visible marks.
func (rn *Renderer) Len() int { return len(rn.order) }
