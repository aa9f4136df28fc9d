package transition

// Easing maps normalized time in [0,1] to progress in [0,1].
type Easing struct {
	Name string
	Fn   func(t float64) float64
}

// CubicInOut is the default easing of the page's drawing library.
var CubicInOut = Easing{Name: "cubic-in-out", Fn: func(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}}

// Linear progresses at a constant rate.
var Linear = Easing{Name: "linear", Fn: func(t float64) float64 { return t }}
