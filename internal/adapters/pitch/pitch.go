// Package pitch prepares the background image of the chart: it decodes an
// image file or draws a pitch, scales it to the surface and encodes WebP.
package pitch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"

	"github.com/okian/freekicks/pkg/logger"
)

// ContentType of the encoded raster.
const ContentType = "image/webp"

// ErrDecode is returned when the pitch file cannot be decoded.
var ErrDecode = errors.New("pitch image decode failed")

// Raster is the encoded background, ready to serve.
type Raster struct {
	Width  int
	Height int
	Source string
	data   []byte
	img    *image.NRGBA
}

// Bytes returns the WebP encoding.
func (r *Raster) Bytes() []byte { return r.data }

// Image returns the scaled image.
func (r *Raster) Image() image.Image { return r.img }

// WriteTo writes the WebP encoding to w.
func (r *Raster) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.data)
	return int64(n), err
}

// Build loads path, or draws a pitch when path is empty, and encodes it at
// width x height.
func Build(ctx context.Context, path string, width, height int, log logger.Logger) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("pitch: size %dx%d is not positive", width, height)
	}
	if log == nil {
		log = logger.Nop()
	}

	var (
		src    image.Image
		source = "drawn"
	)
	if path != "" {
		img, format, err := Load(path)
		if err != nil {
			return nil, err
		}
		src, source = img, format+":"+path
	} else {
		src = Draw(width, height)
	}

	scaled := Scale(src, width, height)
	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, scaled, nil); err != nil {
		return nil, fmt.Errorf("pitch: webp encode: %w", err)
	}

	log.Info(ctx, "pitch ready",
		logger.String("source", source),
		logger.Int("width", width),
		logger.Int("height", height),
		logger.Int("bytes", buf.Len()),
	)
	return &Raster{Width: width, Height: height, Source: source, data: buf.Bytes(), img: scaled}, nil
}

// Load decodes a PNG, JPEG or TGA file chosen by extension. TGA has no
// magic number, so content sniffing is not used.
func Load(path string) (image.Image, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: read %s: %v", ErrDecode, path, err)
	}

	var (
		img    image.Image
		format string
	)
	r := bytes.NewReader(raw)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		format = "png"
		img, err = png.Decode(r)
	case ".jpg", ".jpeg":
		format = "jpeg"
		img, err = jpeg.Decode(r)
	case ".tga":
		format = "tga"
		img, err = tga.Decode(r)
	default:
		return nil, "", fmt.Errorf("%w: %s: unsupported extension %q", ErrDecode, path, ext)
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return img, format, nil
}

// Scale resizes src to width x height with a Catmull-Rom filter.
func Scale(src image.Image, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

var (
	grassLight = color.NRGBA{R: 0x4c, G: 0x9a, B: 0x2a, A: 0xff}
	grassDark  = color.NRGBA{R: 0x43, G: 0x8a, B: 0x25, A: 0xff}
	chalk      = color.NRGBA{R: 0xf4, G: 0xf4, B: 0xf4, A: 0xff}
	netShade   = color.NRGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
)

// Draw paints the attacking third of a pitch with the goal at the top.
func Draw(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	w, h := float64(width), float64(height)

	stripes := 10
	for i := 0; i < stripes; i++ {
		c := grassLight
		if i%2 == 1 {
			c = grassDark
		}
		y0 := int(float64(i) * h / float64(stripes))
		y1 := int(float64(i+1) * h / float64(stripes))
		fill(img, image.Rect(0, y0, width, y1), c)
	}

	line := int(math.Max(2, w/280))
	goalLine := int(0.04 * h)

	// goal, goal line, six-yard box, penalty area
	fill(img, image.Rect(int(0.445*w), 0, int(0.555*w), goalLine), netShade)
	outline(img, image.Rect(int(0.445*w), 0, int(0.555*w), goalLine+line), line, chalk)
	fill(img, image.Rect(0, goalLine, width, goalLine+line), chalk)
	outline(img, image.Rect(int(0.37*w), goalLine, int(0.63*w), goalLine+int(0.1*h)), line, chalk)
	box := image.Rect(int(0.2*w), goalLine, int(0.8*w), goalLine+int(0.3*h))
	outline(img, box, line, chalk)

	// penalty spot and the arc outside the area
	spotX, spotY := 0.5*w, float64(goalLine)+0.2*h
	disc(img, spotX, spotY, float64(line)*1.5, chalk)
	radius := 0.15 * h
	for a := 0.0; a < math.Pi; a += 0.002 {
		x := spotX + radius*math.Cos(a)
		y := spotY + radius*math.Sin(a)
		if y > float64(box.Max.Y) {
			disc(img, x, y, float64(line)/2, chalk)
		}
	}
	return img
}

func fill(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func outline(img *image.NRGBA, r image.Rectangle, t int, c color.NRGBA) {
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), c)
	fill(img, image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), c)
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y), c)
	fill(img, image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y), c)
}

func disc(img *image.NRGBA, cx, cy, r float64, c color.NRGBA) {
	b := img.Bounds()
	for y := int(cy - r); y <= int(cy+r); y++ {
		for x := int(cx - r); x <= int(cx+r); x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy <= r*r && image.Pt(x, y).In(b) {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}
