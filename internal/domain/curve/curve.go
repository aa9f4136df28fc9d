// Package curve builds bundle curves: a uniform cubic B-spline through
// control points that are first pulled towards the straight chord between the
// first and last point.
package curve

import (
	"math"
	"strconv"
	"strings"

	"github.com/okian/freekicks/internal/domain/model"
)

// Command is an SVG path command.
type Command byte

// Path commands used by bundle curves.
const (
	MoveTo  Command = 'M'
	LineTo  Command = 'L'
	CubicTo Command = 'C'
)

// Segment is one path command with its points.
type Segment struct {
	Cmd    Command
	Points []model.Point
}

// Path is an ordered list of segments.
type Path []Segment

// Straighten moves every point towards the chord from the first to the last
// point. beta=1 keeps the points, beta=0 puts them on the chord. beta is
// clamped to [0,1].
func Straighten(points []model.Point, beta float64) []model.Point {
	beta = math.Max(0, math.Min(1, beta))
	out := make([]model.Point, len(points))
	j := len(points) - 1
	if j < 1 {
		copy(out, points)
		return out
	}
	p0 := points[0]
	dx, dy := points[j].X-p0.X, points[j].Y-p0.Y
	for i, p := range points {
		t := float64(i) / float64(j)
		out[i] = model.Point{
			X: beta*p.X + (1-beta)*(p0.X+t*dx),
			Y: beta*p.Y + (1-beta)*(p0.Y+t*dy),
		}
	}
	return out
}

// Bundle returns the bundle curve through points with tension beta. A single
// point yields an empty path, two points a straight line.
func Bundle(points []model.Point, beta float64) Path {
	if len(points) < 2 {
		return nil
	}
	return basis(Straighten(points, beta))
}

func basis(pts []model.Point) Path {
	path := Path{{Cmd: MoveTo, Points: []model.Point{pts[0]}}}
	if len(pts) == 2 {
		return append(path, Segment{Cmd: LineTo, Points: []model.Point{pts[1]}})
	}

	p0, p1 := pts[0], pts[1]
	path = append(path, Segment{Cmd: LineTo, Points: []model.Point{sixth(p0, 5, p1, 1, p1, 0)}})
	for _, p := range pts[2:] {
		path = append(path, cubic(p0, p1, p))
		p0, p1 = p1, p
	}
	path = append(path, cubic(p0, p1, p1))
	return append(path, Segment{Cmd: LineTo, Points: []model.Point{p1}})
}

// cubic is the B-spline span for the window (a, b, c).
func cubic(a, b, c model.Point) Segment {
	return Segment{Cmd: CubicTo, Points: []model.Point{
		{X: (2*a.X + b.X) / 3, Y: (2*a.Y + b.Y) / 3},
		{X: (a.X + 2*b.X) / 3, Y: (a.Y + 2*b.Y) / 3},
		sixth(a, 1, b, 4, c, 1),
	}}
}

// sixth returns (wa*a + wb*b + wc*c) / 6.
func sixth(a model.Point, wa float64, b model.Point, wb float64, c model.Point, wc float64) model.Point {
	return model.Point{
		X: (wa*a.X + wb*b.X + wc*c.X) / 6,
		Y: (wa*a.Y + wb*b.Y + wc*c.Y) / 6,
	}
}

// End returns the last point of the path.
func (p Path) End() (model.Point, bool) {
	if len(p) == 0 {
		return model.Point{}, false
	}
	last := p[len(p)-1].Points
	return last[len(last)-1], true
}

// String renders the path as SVG path data.
func (p Path) String() string {
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte(byte(seg.Cmd))
		for i, pt := range seg.Points {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(Format(pt.X))
			b.WriteByte(',')
			b.WriteString(Format(pt.Y))
		}
	}
	return b.String()
}

// Format prints v with at most three decimals.
func Format(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
