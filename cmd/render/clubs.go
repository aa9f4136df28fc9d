package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/okian/freekicks/internal/adapters/export"
	"github.com/okian/freekicks/internal/domain/chart"
	"github.com/okian/freekicks/internal/domain/filter"
	"github.com/okian/freekicks/internal/domain/model"
	"github.com/okian/freekicks/internal/domain/scene"
	"github.com/okian/freekicks/pkg/logger"
)

// clubFile turns a club name into a file name, e.g. "AC Milan" -> "ac-milan.svg".
func clubFile(club string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, strings.TrimSpace(club))
	return strings.Trim(slug, "-") + ".svg"
}

// writeClubs renders one settled chart per dropdown option into dir. Each
// option gets its own chart; the scene is shared read-only.
func writeClubs(ctx context.Context, dir string, workers int, sc *scene.Scene, records []model.Record,
	svgOpts export.SVGOptions, log logger.Logger,
) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	defer pool.Release()

	clubs := filter.Options(records)
	files := make([]string, len(clubs))
	errs := make([]error, len(clubs))

	var wg sync.WaitGroup
	for i, club := range clubs {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			path := filepath.Join(dir, clubFile(club))
			errs[i] = writeClub(ctx, path, club, sc, records, svgOpts, log)
			files[i] = path
		})
		if err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submit %s: %w", club, err)
		}
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return files, nil
}

func writeClub(ctx context.Context, path, club string, sc *scene.Scene, records []model.Record,
	svgOpts export.SVGOptions, log logger.Logger,
) error {
	c, err := chart.New(ctx, sc, records, chart.WithLogger(log))
	if err != nil {
		return err
	}
	if club != filter.All {
		if _, err := c.Select(ctx, club); err != nil {
			return err
		}
	}
	frame := c.SettledFrame()
	if err := writeFile(path, func(w io.Writer) error { return export.WriteSVG(w, frame, svgOpts) }); err != nil {
		return fmt.Errorf("%s: %w", club, err)
	}
	log.Debug(ctx, "club chart written", logger.String("club", club), logger.String("file", path))
	return nil
}
