package scene

// LinearScale maps a continuous domain onto a continuous range.
type LinearScale struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear returns a scale mapping [d0,d1] onto [r0,r1].
func NewLinear(d0, d1, r0, r1 float64) LinearScale {
	return LinearScale{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Apply maps a domain value into the range. Values outside the domain are
// extrapolated.
func (s LinearScale) Apply(v float64) float64 {
	if s.d1 == s.d0 {
		return (s.r0 + s.r1) / 2
	}
	t := (v - s.d0) / (s.d1 - s.d0)
	return s.r0 + t*(s.r1-s.r0)
}

// Invert maps a range value back into the domain.
func (s LinearScale) Invert(v float64) float64 {
	if s.r1 == s.r0 {
		return (s.d0 + s.d1) / 2
	}
	t := (v - s.r0) / (s.r1 - s.r0)
	return s.d0 + t*(s.d1-s.d0)
}

// Domain returns the domain bounds.
func (s LinearScale) Domain() (float64, float64) { return s.d0, s.d1 }

// Range returns the range bounds.
func (s LinearScale) Range() (float64, float64) { return s.r0, s.r1 }
