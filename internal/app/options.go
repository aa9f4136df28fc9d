package service

import (
	"time"

	"github.com/okian/freekicks/internal/adapters/repository"
	"github.com/okian/freekicks/internal/domain/scene"
	"github.com/okian/freekicks/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDatasetPath reads the dataset from path instead of the embedded one.
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		s.datasetPath = path
	}
}

// WithPitchPath decodes the background from path instead of drawing it.
func WithPitchPath(path string) Option {
	return func(s *Service) {
		s.pitchPath = path
	}
}

// WithInvertY flips the vertical scale.
func WithInvertY(invert bool) Option {
	return func(s *Service) {
		s.invertY = invert
	}
}

// WithMarkRadius sets the circle radius of every mark.
func WithMarkRadius(r float64) Option {
	return func(s *Service) {
		if r > 0 {
			s.radius = r
		}
	}
}

// WithEnterDuration sets how long new marks take to fade in.
func WithEnterDuration(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.enter = d
		}
	}
}

// WithPalette sets the category colors in legend order.
func WithPalette(p []scene.PaletteEntry) Option {
	return func(s *Service) {
		if len(p) > 0 {
			s.palette = p
		}
	}
}

// WithSessionCapacity bounds the number of live sessions.
func WithSessionCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sessionCapacity = n
		}
	}
}

// WithSQLiteStore keeps the records in the SQLite database at dsn instead of
// memory. An empty dsn uses an in-memory database.
func WithSQLiteStore(dsn string) Option {
	return func(s *Service) {
		s.sqlite = true
		s.sqliteDSN = dsn
	}
}

// WithStore serves records from store. The loaded dataset replaces its
// contents when it implements repository.ReplaceableStore. Stop closes it
// when it has a Close method.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.customStore = store
	}
}

// WithQueueSize sets the maximum size of the interaction queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithInteractionTimeout caps how long a caller waits for the UI loop.
func WithInteractionTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithAnchorCheck verifies the page containers during Start.
func WithAnchorCheck(check scene.AnchorCheck) Option {
	return func(s *Service) {
		s.anchorCheck = check
	}
}

// WithClock replaces time.Now for every chart transition.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
