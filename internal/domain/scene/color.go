package scene

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/okian/freekicks/internal/domain/model"
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// PaletteEntry binds a category to a color.
type PaletteEntry struct {
	Category string `json:"category"`
	Color    string `json:"color"`
}

// ColorScale is an ordinal scale over a fixed category domain. It has no
// fallback: unknown categories are reported, never colored.
type ColorScale struct {
	domain []string
	colors map[string]string
}

// NewColorScale validates the palette and builds the scale.
func NewColorScale(palette []PaletteEntry) (*ColorScale, error) {
	if len(palette) == 0 {
		return nil, fmt.Errorf("palette is empty")
	}
	cs := &ColorScale{
		domain: make([]string, 0, len(palette)),
		colors: make(map[string]string, len(palette)),
	}
	for _, p := range palette {
		cat := strings.TrimSpace(p.Category)
		if cat == "" {
			return nil, fmt.Errorf("palette entry with empty category")
		}
		if cat == model.AllCategories {
			return nil, fmt.Errorf("palette category %q is reserved for the all-records option", cat)
		}
		if _, dup := cs.colors[cat]; dup {
			return nil, fmt.Errorf("palette category %q listed twice", cat)
		}
		if !hexColor.MatchString(p.Color) {
			return nil, fmt.Errorf("palette color %q for %q is not #rgb or #rrggbb", p.Color, cat)
		}
		cs.domain = append(cs.domain, cat)
		cs.colors[cat] = strings.ToLower(p.Color)
	}
	return cs, nil
}

// Color returns the color of category.
func (c *ColorScale) Color(category string) (string, error) {
	col, ok := c.colors[category]
	if !ok {
		return "", fmt.Errorf("%w: %q", model.ErrUnmappedCategory, category)
	}
	return col, nil
}

// Has reports whether category is in the domain.
func (c *ColorScale) Has(category string) bool {
	_, ok := c.colors[category]
	return ok
}

// Domain returns a copy of the categories in palette order.
func (c *ColorScale) Domain() []string {
	out := make([]string, len(c.domain))
	copy(out, c.domain)
	return out
}

// Palette returns the entries in domain order.
func (c *ColorScale) Palette() []PaletteEntry {
	out := make([]PaletteEntry, len(c.domain))
	for i, cat := range c.domain {
		out[i] = PaletteEntry{Category: cat, Color: c.colors[cat]}
	}
	return out
}
