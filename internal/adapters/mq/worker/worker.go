package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/freekicks/internal/adapters/mq/queue"
	"github.com/okian/freekicks/pkg/logger"
	"github.com/okian/freekicks/pkg/metrics"
)

const defaultName = "ui-loop"

// Applier performs an interaction on the chart it targets.
type Applier interface {
	Apply(ctx context.Context, in queue.Interaction) queue.Result
}

// Queue defines how the worker receives interactions.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Interaction
}

// Worker applies interactions in arrival order.
type Worker interface {
	// Run starts the loop until ctx is canceled, Shutdown is called or the
	// queue is closed and drained.
	Run(ctx context.Context)

	// Shutdown stops the loop and waits for it to return.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker is the single consumer of the interaction queue. Every
// chart mutation happens on its goroutine.
type InMemoryWorker struct {
	queue   Queue
	applier Applier
	name    string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, applier Applier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		applier:  applier,
		name:     defaultName,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named(defaultName),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != defaultName {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	// Cancelling the dequeue context makes the queue refuse what is left.
	dequeueCtx, stop := context.WithCancel(ctx)
	defer stop()

	items := w.queue.Dequeue(dequeueCtx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case in, ok := <-items:
			if !ok {
				return
			}
			w.process(ctx, in)
		}
	}
}

// Done is closed when Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process applies one interaction and hands the result to its caller.
func (w *InMemoryWorker) process(ctx context.Context, in queue.Interaction) {
	start := time.Now()
	res := w.applier.Apply(ctx, in)
	metrics.RecordInteractionLatency(string(in.Kind), float64(time.Since(start).Microseconds())/1000)

	if res.Err != nil {
		metrics.RecordErrorByComponent("ui_loop", string(in.Kind))
		w.logger.Debug(ctx, "interaction failed",
			logger.String("kind", string(in.Kind)),
			logger.String("session", in.SessionID),
			logger.Error(res.Err),
		)
	}

	if in.Reply == nil {
		return
	}
	select {
	case in.Reply <- res:
	default:
		w.logger.Warn(ctx, "reply dropped", logger.String("kind", string(in.Kind)))
	}
}
