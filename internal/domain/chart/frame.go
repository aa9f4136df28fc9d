package chart

import (
	"github.com/okian/freekicks/internal/domain/hover"
	"github.com/okian/freekicks/internal/domain/render"
	"github.com/okian/freekicks/internal/domain/scene"
	"github.com/okian/freekicks/internal/domain/transition"
)

// Frame is the full drawable state of a chart at one instant. Animated
// properties carry their transition so a client can finish them locally.
type Frame struct {
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Background BackgroundFrame `json:"background"`
	Marks      []MarkFrame     `json:"marks"`
	Tooltip    TooltipFrame    `json:"tooltip"`
	Path       *PathFrame      `json:"path,omitempty"`
	Selected   string          `json:"selected"`
	Settled    bool            `json:"settled"`
}

// BackgroundFrame is the pitch image.
type BackgroundFrame struct {
	scene.Background
	Fade transition.State `json:"fade"`
}

// MarkFrame is one circle.
type MarkFrame struct {
	render.Mark
	State string           `json:"state"`
	Fade  transition.State `json:"fade"`
}

// TooltipFrame is the tooltip box.
type TooltipFrame struct {
	hover.Tooltip
	Fade transition.State `json:"fade"`
}

// PathFrame is the trajectory of the highlighted kick.
type PathFrame struct {
	hover.Path
	Fade transition.State `json:"fade"`
}
