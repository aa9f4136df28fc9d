// Package export turns chart state into standalone images: an SVG document
// of a frame and a PNG overview of every kick origin.
package export

import (
	"bufio"
	"fmt"
	"html"
	"io"

	"github.com/okian/freekicks/internal/domain/chart"
	"github.com/okian/freekicks/internal/domain/curve"
)

const tooltipLineHeight = 16.0

// SVGOptions tune the exported document.
type SVGOptions struct {
	// BackgroundHref replaces the frame's image reference, e.g. with a data
	// URI so the document is self-contained.
	BackgroundHref string
}

// WriteSVG writes f as an SVG document. Opacities are the frame values.
func WriteSVG(w io.Writer, f chart.Frame, opts SVGOptions) error {
	bw := bufio.NewWriter(w)
	num := curve.Format

	href := f.Background.Href
	if opts.BackgroundHref != "" {
		href = opts.BackgroundHref
	}

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(f.Width), num(f.Height), num(f.Width), num(f.Height))
	fmt.Fprintf(bw, `<title>%s</title>`+"\n", html.EscapeString("Free kicks: "+f.Selected))
	bw.WriteString("<g>\n")
	fmt.Fprintf(bw, `<image class="pitch" xlink:href="%s" x="%s" y="%s" width="%s" height="%s" style="opacity:%s"/>`+"\n",
		html.EscapeString(href), num(f.Background.X), num(f.Background.Y),
		num(f.Background.Width), num(f.Background.Height), num(f.Background.Opacity))

	for _, m := range f.Marks {
		fmt.Fprintf(bw, `<circle class="dot" data-id="%d" data-state="%s" r="%s" cx="%s" cy="%s" fill="%s" stroke="%s" stroke-width="%s" style="opacity:%s"/>`+"\n",
			m.ID, m.State, num(m.R), num(m.CX), num(m.CY),
			html.EscapeString(m.Fill), html.EscapeString(m.Stroke), num(m.StrokeWidth), num(m.Fade.Value))
	}

	if p := f.Path; p != nil {
		fmt.Fprintf(bw, `<path class="goal-path" data-id="%d" d="%s" stroke="%s" stroke-width="%s" fill="%s" style="opacity:%s"/>`+"\n",
			p.RecordID, p.D, html.EscapeString(p.Stroke), num(p.StrokeWidth), p.Fill, num(p.Fade.Value))
	}
	bw.WriteString("</g>\n")

	if f.Tooltip.Display && len(f.Tooltip.Lines) > 0 {
		fmt.Fprintf(bw, `<text class="tooltip" x="12" y="%s" style="opacity:%s">`, num(tooltipLineHeight+4), num(f.Tooltip.Fade.Value))
		for i, line := range f.Tooltip.Lines {
			dy := "0"
			if i > 0 {
				dy = num(tooltipLineHeight)
			}
			fmt.Fprintf(bw, `<tspan x="12" dy="%s">%s</tspan>`, dy, html.EscapeString(line))
		}
		bw.WriteString("</text>\n")
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}
