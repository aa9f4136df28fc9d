// Command render writes the free-kick chart as an SVG document and,
// optionally, the overview of every kick origin as a PNG or one SVG per
// club into a directory.
package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/okian/freekicks/internal/adapters/export"
	"github.com/okian/freekicks/internal/adapters/pitch"
	"github.com/okian/freekicks/internal/domain/chart"
	"github.com/okian/freekicks/internal/domain/dataset"
	"github.com/okian/freekicks/internal/domain/filter"
	"github.com/okian/freekicks/internal/domain/model"
	"github.com/okian/freekicks/internal/domain/scene"
	"github.com/okian/freekicks/pkg/logger"
)

type options struct {
	dataset string
	pitch   string
	club    string
	hover   string
	svg     string
	png     string
	invertY bool
	embed   bool
	clubs   string
	workers int
}

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := run(context.Background(), os.Args[1:], os.Stderr); err != nil {
		logger.Get().Error(context.Background(), "render failed", logger.Error(err))
		os.Exit(1)
	}
}

func parse(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.dataset, "dataset", "", "dataset JSON file (default: embedded dataset)")
	fs.StringVar(&o.pitch, "pitch", "", "PNG, JPEG or TGA pitch image (default: drawn)")
	fs.StringVar(&o.club, "club", filter.All, "club to show")
	fs.StringVar(&o.hover, "hover", "", "record id to highlight")
	fs.StringVar(&o.svg, "svg", "chart.svg", "SVG output file")
	fs.StringVar(&o.png, "png", "", "overview PNG output file")
	fs.BoolVar(&o.invertY, "invert-y", true, "data y grows upwards")
	fs.BoolVar(&o.embed, "embed-pitch", true, "inline the pitch image in the SVG")
	fs.StringVar(&o.clubs, "all-clubs", "", "also write one SVG per club into this directory")
	fs.IntVar(&o.workers, "workers", runtime.NumCPU(), "concurrent renders for -all-clubs")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return o, nil
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	o, err := parse(args, stderr)
	if err != nil {
		return err
	}
	log := logger.Named("render")

	sc := scene.New(scene.WithInvertY(o.invertY), scene.WithLogger(log))
	if err := sc.Setup(ctx); err != nil {
		return err
	}

	records, err := loadRecords(ctx, o.dataset, sc.Colors(), log)
	if err != nil {
		return err
	}

	c, err := chart.New(ctx, sc, records, chart.WithLogger(log))
	if err != nil {
		return err
	}
	if o.club != filter.All {
		if _, err := c.Select(ctx, o.club); err != nil {
			return err
		}
	}
	if o.hover != "" {
		id, err := strconv.Atoi(o.hover)
		if err != nil {
			return fmt.Errorf("hover id %q: %w", o.hover, err)
		}
		if err := c.PointerEnter(ctx, id); err != nil {
			return err
		}
	}

	var svgOpts export.SVGOptions
	if o.embed {
		raster, err := pitch.Build(ctx, o.pitch, int(sc.Width()), int(sc.Height()), log)
		if err != nil {
			return err
		}
		svgOpts.BackgroundHref = "data:" + pitch.ContentType + ";base64," + base64.StdEncoding.EncodeToString(raster.Bytes())
	}

	frame := c.SettledFrame()
	if err := writeFile(o.svg, func(w io.Writer) error { return export.WriteSVG(w, frame, svgOpts) }); err != nil {
		return err
	}
	log.Info(ctx, "chart written",
		logger.String("file", o.svg),
		logger.String("club", o.club),
		logger.Int("marks", len(frame.Marks)),
	)

	if o.png != "" {
		overviewOpts := export.DefaultOverviewOptions()
		overviewOpts.InvertY = o.invertY
		visible := filter.Apply(records, o.club)
		if err := writeFile(o.png, func(w io.Writer) error {
			return export.WriteOverview(w, visible, sc.Colors(), overviewOpts)
		}); err != nil {
			return err
		}
		log.Info(ctx, "overview written", logger.String("file", o.png), logger.Int("records", len(visible)))
	}

	if o.clubs != "" {
		files, err := writeClubs(ctx, o.clubs, o.workers, sc, records, svgOpts, log)
		if err != nil {
			return err
		}
		log.Info(ctx, "club charts written", logger.String("dir", o.clubs), logger.Int("files", len(files)))
	}
	return nil
}

func loadRecords(ctx context.Context, path string, colors *scene.ColorScale, log logger.Logger) ([]model.Record, error) {
	loader := dataset.NewLoader(colors, dataset.WithLogger(log))
	if path == "" {
		return loader.Load(ctx, dataset.Default)
	}
	return loader.LoadFile(ctx, path)
}

func writeFile(path string, write func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}
