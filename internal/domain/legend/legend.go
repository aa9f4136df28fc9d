// Package legend lists the category colors of the chart.
package legend

// Swatch is one legend entry.
type Swatch struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Palette is an ordered category to color mapping.
type Palette interface {
	Domain() []string
	Color(category string) (string, error)
}

// Build returns one swatch per category of p in domain order.
func Build(p Palette) ([]Swatch, error) {
	domain := p.Domain()
	out := make([]Swatch, 0, len(domain))
	for _, cat := range domain {
		c, err := p.Color(cat)
		if err != nil {
			return nil, err
		}
		out = append(out, Swatch{Label: cat, Color: c})
	}
	return out, nil
}
