// Package scene holds the fixed drawing surface of the chart: its size, the
// background pitch, the position scales, the category colors and the page
// anchors the chart is mounted on.
package scene

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/okian/freekicks/internal/domain/model"
	"github.com/okian/freekicks/pkg/logger"
)

// Default background settings.
const (
	DefaultBackgroundHref = "/pitch.webp"
	DefaultOpacity        = 1.0
)

// Anchors are the element selectors the page must provide.
type Anchors struct {
	Surface string `json:"surface"`
	Filter  string `json:"filter"`
	Tooltip string `json:"tooltip"`
	Legend  string `json:"legend"`
}

// DefaultAnchors returns the selectors used by the embedded page.
func DefaultAnchors() Anchors {
	return Anchors{Surface: "#chart", Filter: "#club-filter", Tooltip: "#tooltip", Legend: "#legend"}
}

// IDs returns the element ids behind the selectors.
func (a Anchors) IDs() []string {
	out := make([]string, 0, 4)
	for _, sel := range []string{a.Surface, a.Filter, a.Tooltip, a.Legend} {
		out = append(out, strings.TrimPrefix(sel, "#"))
	}
	return out
}

// AnchorCheck reports an error when any of the given element ids is absent
// from the page.
type AnchorCheck func(ids []string) error

// Background is the pitch image drawn behind the marks.
type Background struct {
	Href    string  `json:"href"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Opacity float64 `json:"opacity"`
}

// Scene is the shared, read-only drawing context. Accessors are valid after
// Setup returned nil.
type Scene struct {
	width, height float64
	invertY       bool
	palette       []PaletteEntry
	href          string
	anchors       Anchors
	check         AnchorCheck
	logger        logger.Logger

	once sync.Once
	err  error

	x, y   LinearScale
	colors *ColorScale
}

// Option configures a Scene.
type Option func(*Scene)

// WithPalette replaces the default club palette.
func WithPalette(p []PaletteEntry) Option {
	return func(s *Scene) { s.palette = p }
}

// WithInvertY controls whether larger y values are drawn higher.
func WithInvertY(invert bool) Option {
	return func(s *Scene) { s.invertY = invert }
}

// WithSize overrides the surface size.
func WithSize(width, height float64) Option {
	return func(s *Scene) { s.width, s.height = width, height }
}

// WithBackgroundHref sets the URL of the pitch image.
func WithBackgroundHref(href string) Option {
	return func(s *Scene) { s.href = href }
}

// WithAnchors overrides the page selectors.
func WithAnchors(a Anchors) Option {
	return func(s *Scene) { s.anchors = a }
}

// WithAnchorCheck verifies the anchors during Setup.
func WithAnchorCheck(check AnchorCheck) Option {
	return func(s *Scene) { s.check = check }
}

// WithLogger sets the scene logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.logger = l
		}
	}
}

// DefaultPalette returns the six club colors in legend order.
func DefaultPalette() []PaletteEntry {
	return []PaletteEntry{
		{Category: "AC Milan", Color: "#8e0f0f"},
		{Category: "England", Color: "#fff"},
		{Category: "LA Galaxy", Color: "#2256f1"},
		{Category: "Manchester United", Color: "#cc3434"},
		{Category: "Preston North End", Color: "#5cc0f6"},
		{Category: "Real Madrid", Color: "#5f5c5c"},
	}
}

// New creates an unprepared scene.
func New(opts ...Option) *Scene {
	s := &Scene{
		width:   model.SurfaceWidth,
		height:  model.SurfaceHeight,
		invertY: true,
		palette: DefaultPalette(),
		href:    DefaultBackgroundHref,
		anchors: DefaultAnchors(),
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Setup validates the configuration and builds the scales. Only the first
// call does any work; later calls return its result.
func (s *Scene) Setup(ctx context.Context) error {
	s.once.Do(func() {
		s.err = s.setup(ctx)
	})
	return s.err
}

func (s *Scene) setup(ctx context.Context) error {
	if s.width <= 0 || s.height <= 0 {
		return &SetupError{Component: "surface", Reason: fmt.Sprintf("size %gx%g is not positive", s.width, s.height)}
	}
	if strings.TrimSpace(s.href) == "" {
		return &SetupError{Component: "background", Reason: "image href is empty"}
	}

	colors, err := NewColorScale(s.palette)
	if err != nil {
		return &SetupError{Component: "palette", Reason: err.Error()}
	}

	for _, id := range s.anchors.IDs() {
		if id == "" {
			return &SetupError{Component: "anchors", Reason: "empty selector"}
		}
	}
	if s.check != nil {
		if err := s.check(s.anchors.IDs()); err != nil {
			return &SetupError{Component: "anchors", Reason: err.Error()}
		}
	}

	s.x = NewLinear(0, s.width, 0, s.width)
	if s.invertY {
		s.y = NewLinear(0, s.height, s.height, 0)
	} else {
		s.y = NewLinear(0, s.height, 0, s.height)
	}
	s.colors = colors

	s.logger.Info(ctx, "scene ready",
		logger.Float64("width", s.width),
		logger.Float64("height", s.height),
		logger.Bool("invert_y", s.invertY),
		logger.Strings("categories", colors.Domain()),
	)
	return nil
}

// Width of the surface.
func (s *Scene) Width() float64 { return s.width }

// Height of the surface.
func (s *Scene) Height() float64 { return s.height }

// X is the horizontal scale.
func (s *Scene) X() LinearScale { return s.x }

// Y is the vertical scale.
func (s *Scene) Y() LinearScale { return s.y }

// Colors is the category color scale.
func (s *Scene) Colors() *ColorScale { return s.colors }

// Anchors returns the page selectors.
func (s *Scene) Anchors() Anchors { return s.anchors }

// Background returns the pitch image covering the whole surface at full
// opacity.
func (s *Scene) Background() Background {
	return Background{Href: s.href, Width: s.width, Height: s.height, Opacity: DefaultOpacity}
}

// Project maps a data point to surface pixels.
func (s *Scene) Project(p model.Point) model.Point {
	return model.Point{X: s.x.Apply(p.X), Y: s.y.Apply(p.Y)}
}

// Color returns the fill of category.
func (s *Scene) Color(category string) (string, error) {
	if s.colors == nil {
		return "", &SetupError{Component: "palette", Reason: "scene is not set up"}
	}
	return s.colors.Color(category)
}
