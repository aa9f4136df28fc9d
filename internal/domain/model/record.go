// Package model contains domain models passed between layers.
package model

// AllCategories is the filter option that shows every record. No category
// may use this name.
const AllCategories = "All"

// Point is a position in data space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Record is one free kick. Records are loaded once and never mutated.
type Record struct {
	ID           int     `json:"id"`
	Origin       Point   `json:"origin"`
	Control      Point   `json:"control"`
	Target       Point   `json:"target"`
	CurveTension float64 `json:"curve_tension"`
	Category     string  `json:"category"`
	SeasonLabel  string  `json:"season"`
	FixtureLabel string  `json:"fixture"`
}

// Trajectory returns origin, control and target in drawing order.
func (r Record) Trajectory() [3]Point {
	return [3]Point{r.Origin, r.Control, r.Target}
}

// TooltipLines is the text shown while the record is highlighted.
func (r Record) TooltipLines() []string {
	return []string{r.SeasonLabel, r.FixtureLabel}
}
