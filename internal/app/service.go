// Package service wires the dataset, the scene and the UI loop, and
// implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/okian/freekicks/internal/adapters/export"
	"github.com/okian/freekicks/internal/adapters/mq/queue"
	"github.com/okian/freekicks/internal/adapters/mq/worker"
	"github.com/okian/freekicks/internal/adapters/pitch"
	"github.com/okian/freekicks/internal/adapters/repository"
	"github.com/okian/freekicks/internal/domain/chart"
	"github.com/okian/freekicks/internal/domain/dataset"
	"github.com/okian/freekicks/internal/domain/filter"
	"github.com/okian/freekicks/internal/domain/legend"
	"github.com/okian/freekicks/internal/domain/model"
	"github.com/okian/freekicks/internal/domain/render"
	"github.com/okian/freekicks/internal/domain/scene"
	"github.com/okian/freekicks/internal/domain/session"
	"github.com/okian/freekicks/pkg/logger"
	"github.com/okian/freekicks/pkg/metrics"
)

// ErrNotStarted is returned by calls made before Start or after Stop.
var ErrNotStarted = errors.New("service not started")

const stopTimeout = 5 * time.Second

// Service owns the shared read-only state and the UI loop.
type Service struct {
	mu sync.RWMutex

	// Configuration
	datasetPath     string
	pitchPath       string
	sqlite          bool
	customStore     repository.Store
	sqliteDSN       string
	invertY         bool
	radius          float64
	enter           time.Duration
	palette         []scene.PaletteEntry
	sessionCapacity int
	queueSize       int
	timeout         time.Duration
	anchorCheck     scene.AnchorCheck
	now             func() time.Time

	// Core components
	scene    *scene.Scene
	store    repository.Store
	raster   *pitch.Raster
	sessions session.Registry
	queue    *queue.InMemoryQueue
	worker   *worker.InMemoryWorker
	cancel   context.CancelFunc

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		invertY:         true,
		radius:          render.DefaultRadius,
		enter:           render.DefaultEnterDuration,
		palette:         scene.DefaultPalette(),
		sessionCapacity: 1024,
		queueSize:       4096,
		timeout:         2 * time.Second,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the dataset, prepares the scene and the background, and runs
// the UI loop. Any failure leaves the service stopped.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting chart service...")

	sc := scene.New(
		scene.WithPalette(s.palette),
		scene.WithInvertY(s.invertY),
		scene.WithAnchorCheck(s.anchorCheck),
		scene.WithLogger(s.logger.Named("scene")),
	)
	if err := sc.Setup(ctx); err != nil {
		return err
	}

	records, err := s.load(ctx, sc.Colors())
	if err != nil {
		return err
	}

	store, err := s.openStore(ctx, records)
	if err != nil {
		return err
	}

	raster, err := pitch.Build(ctx, s.pitchPath, int(sc.Width()), int(sc.Height()), s.logger.Named("pitch"))
	if err != nil {
		closeStore(store)
		return err
	}

	s.scene, s.store, s.raster = sc, store, raster
	s.sessions = session.NewInMemoryRegistry(session.WithCapacity(s.sessionCapacity))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.worker = worker.NewInMemoryWorker(s.queue, s, worker.WithLogger(s.logger.Named("ui-loop")))

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go s.worker.Run(loopCtx)

	s.started = true
	s.logger.Info(ctx, "chart service started",
		logger.Int("records", len(records)),
		logger.Int("queueSize", s.queueSize),
		logger.Int("sessionCapacity", s.sessionCapacity),
	)
	return nil
}

func (s *Service) openStore(ctx context.Context, records []model.Record) (repository.Store, error) {
	if s.customStore != nil {
		if rs, ok := s.customStore.(repository.ReplaceableStore); ok {
			if err := rs.Replace(ctx, records); err != nil {
				return nil, fmt.Errorf("fill record store: %w", err)
			}
		}
		return s.customStore, nil
	}
	if !s.sqlite {
		return repository.NewMemoryStore(repository.WithRecords(records))
	}
	store, err := repository.NewSQLiteStore(ctx, s.sqliteDSN)
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}
	if err := store.Replace(ctx, records); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("fill record store: %w", err)
	}
	return store, nil
}

func closeStore(store repository.Store) {
	if c, ok := store.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}

func (s *Service) load(ctx context.Context, colors *scene.ColorScale) ([]model.Record, error) {
	loader := dataset.NewLoader(colors, dataset.WithLogger(s.logger.Named("dataset")))

	var (
		records []model.Record
		err     error
	)
	if s.datasetPath != "" {
		records, err = loader.LoadFile(ctx, s.datasetPath)
	} else {
		records, err = loader.Load(ctx, dataset.Default)
	}

	var problems dataset.ValidationErrors
	if errors.As(err, &problems) {
		for kind, n := range problems.Kinds() {
			for i := 0; i < n; i++ {
				metrics.RecordValidationError(string(kind))
			}
		}
		for _, p := range problems {
			s.logger.Error(ctx, "invalid record", logger.Error(p))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return records, nil
}

// Stop drains the UI loop and releases the sessions.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping chart service...")

	// Closing the queue lets the loop drain what was accepted and return.
	_ = s.queue.Close()
	shutdownCtx, cancel := context.WithTimeout(ctx, stopTimeout)
	select {
	case <-s.worker.Done():
	case <-shutdownCtx.Done():
		late, stopLate := context.WithTimeout(ctx, stopTimeout)
		if err := s.worker.Shutdown(late); err != nil {
			s.logger.Warn(ctx, "ui loop did not stop in time", logger.Error(err))
		}
		stopLate()
	}
	cancel()
	s.cancel()
	closeStore(s.store)
	s.store = nil

	s.started = false
	s.logger.Info(ctx, "chart service stopped")
}

// Apply runs one interaction. It is called only from the UI loop.
func (s *Service) Apply(ctx context.Context, in queue.Interaction) queue.Result {
	res := queue.Result{SessionID: in.SessionID}

	if in.Kind == queue.KindCreate {
		records, err := s.store.List(ctx)
		if err != nil {
			res.Err = fmt.Errorf("list records: %w", err)
			return res
		}
		c, err := chart.New(ctx, s.scene, records,
			chart.WithClock(s.now),
			chart.WithRadius(s.radius),
			chart.WithEnterDuration(s.enter),
			chart.WithLogger(s.logger.Named("chart")),
		)
		if err != nil {
			res.Err = err
			return res
		}
		res.SessionID = s.sessions.Create(ctx, c)
		res.Frame = c.Frame()
		for _, m := range res.Frame.Marks {
			res.Diff.Entered = append(res.Diff.Entered, m.ID)
		}
		return res
	}

	c, err := s.sessions.Get(ctx, in.SessionID)
	if err != nil {
		res.Err = fmt.Errorf("%w: %s", err, in.SessionID)
		return res
	}

	switch in.Kind {
	case queue.KindFrame:
	case queue.KindSettled:
		res.Frame = c.SettledFrame()
		return res
	case queue.KindSelect:
		res.Diff, res.Err = c.Select(ctx, in.Category)
	case queue.KindEnter:
		res.Err = c.PointerEnter(ctx, in.RecordID)
	case queue.KindLeave:
		res.Err = c.PointerLeave(ctx, in.RecordID)
	case queue.KindClose:
		s.sessions.Delete(ctx, in.SessionID)
		return res
	default:
		res.Err = fmt.Errorf("unknown interaction kind %q", in.Kind)
		return res
	}
	res.Frame = c.Frame()
	return res
}

// submit hands in to the UI loop and waits for its result.
func (s *Service) submit(ctx context.Context, in queue.Interaction, reply <-chan queue.Result) (queue.Result, error) {
	s.mu.RLock()
	q, started, timeout := s.queue, s.started, s.timeout
	s.mu.RUnlock()
	if !started {
		return queue.Result{}, ErrNotStarted
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := q.Enqueue(ctx, in); err != nil {
		return queue.Result{}, err
	}
	select {
	case res := <-reply:
		return res, res.Err
	case <-ctx.Done():
		return queue.Result{}, fmt.Errorf("waiting for %s: %w", in.Kind, ctx.Err())
	}
}

// CreateSession builds a chart for a new viewer with every record drawn.
func (s *Service) CreateSession(ctx context.Context) (queue.Result, error) {
	in, reply := queue.NewInteraction(queue.KindCreate, "")
	return s.submit(ctx, in, reply)
}

// Frame returns the current frame of a session, or the frame once every
// running transition has finished when settled is set.
func (s *Service) Frame(ctx context.Context, sessionID string, settled bool) (queue.Result, error) {
	kind := queue.KindFrame
	if settled {
		kind = queue.KindSettled
	}
	in, reply := queue.NewInteraction(kind, sessionID)
	return s.submit(ctx, in, reply)
}

// Select applies a dropdown choice to a session.
func (s *Service) Select(ctx context.Context, sessionID, category string) (queue.Result, error) {
	in, reply := queue.NewInteraction(queue.KindSelect, sessionID)
	in.Category = category
	return s.submit(ctx, in, reply)
}

// PointerEnter delivers a pointer-enter on mark id of a session.
func (s *Service) PointerEnter(ctx context.Context, sessionID string, id int) (queue.Result, error) {
	in, reply := queue.NewInteraction(queue.KindEnter, sessionID)
	in.RecordID = id
	return s.submit(ctx, in, reply)
}

// PointerLeave delivers a pointer-leave on mark id of a session.
func (s *Service) PointerLeave(ctx context.Context, sessionID string, id int) (queue.Result, error) {
	in, reply := queue.NewInteraction(queue.KindLeave, sessionID)
	in.RecordID = id
	return s.submit(ctx, in, reply)
}

// CloseSession drops a session.
func (s *Service) CloseSession(ctx context.Context, sessionID string) error {
	in, reply := queue.NewInteraction(queue.KindClose, sessionID)
	_, err := s.submit(ctx, in, reply)
	return err
}

// ExportSVG writes the settled frame of a session as an SVG document.
func (s *Service) ExportSVG(ctx context.Context, sessionID string, w io.Writer) error {
	res, err := s.Frame(ctx, sessionID, true)
	if err != nil {
		return err
	}
	return export.WriteSVG(w, res.Frame, export.SVGOptions{})
}

// Options returns the dropdown options of the dataset.
func (s *Service) Options(ctx context.Context) []string {
	store := s.currentStore()
	if store == nil {
		return []string{filter.All}
	}
	return filter.Options(store.All(ctx))
}

// Legend returns one swatch per palette entry.
func (s *Service) Legend(ctx context.Context) ([]legend.Swatch, error) {
	s.mu.RLock()
	sc := s.scene
	s.mu.RUnlock()
	if sc == nil {
		return nil, ErrNotStarted
	}
	return legend.Build(sc.Colors())
}

// Records returns the records of category, or all of them for All.
func (s *Service) Records(ctx context.Context, category string) []model.Record {
	store := s.currentStore()
	if store == nil {
		return nil
	}
	if category == filter.All {
		return store.All(ctx)
	}
	return store.ByCategory(ctx, category)
}

// Record returns one record by id.
func (s *Service) Record(ctx context.Context, id int) (model.Record, error) {
	store := s.currentStore()
	if store == nil {
		return model.Record{}, ErrNotStarted
	}
	return store.Get(ctx, id)
}

// Pitch returns the encoded background.
func (s *Service) Pitch(ctx context.Context) ([]byte, string, error) {
	s.mu.RLock()
	raster := s.raster
	s.mu.RUnlock()
	if raster == nil {
		return nil, "", ErrNotStarted
	}
	return raster.Bytes(), pitch.ContentType, nil
}

// Overview writes a PNG of every kick origin colored by category.
func (s *Service) Overview(ctx context.Context, w io.Writer) error {
	s.mu.RLock()
	store, sc, invert := s.store, s.scene, s.invertY
	s.mu.RUnlock()
	if store == nil {
		return ErrNotStarted
	}
	opts := export.DefaultOverviewOptions()
	opts.InvertY = invert
	return export.WriteOverview(w, store.All(ctx), sc.Colors(), opts)
}

func (s *Service) currentStore() repository.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"queueSize":       s.queueSize,
		"sessionCapacity": s.sessionCapacity,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		sessions := s.sessions.Size()

		stats["queueLength"] = queueLen
		stats["sessions"] = sessions
		stats["records"] = s.store.Count(ctx)
		stats["categories"] = s.scene.Colors().Domain()
		stats["pitch"] = s.raster.Source

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateSessionsActive(int(sessions))
	}
	return stats
}
