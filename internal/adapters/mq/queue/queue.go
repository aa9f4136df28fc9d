// Package queue carries viewer interactions to the UI loop.
//
// The queue is bounded and never blocks the producer: a full queue refuses
// the interaction so the caller can answer with backpressure.
package queue

import (
	"context"
	"sync"

	"github.com/okian/freekicks/pkg/metrics"
)

const defaultQueueCapacity = 4096

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an interaction. It returns ErrFull or ErrClosed when the
	// interaction was refused.
	Enqueue(ctx context.Context, in Interaction) error

	// Dequeue returns a channel that receives interactions in order.
	// The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Interaction

	// Len returns the current number of waiting interactions.
	Len(ctx context.Context) int

	// Close stops accepting interactions. Waiting ones are still delivered.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	items    chan Interaction
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan Interaction, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds an interaction to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, in Interaction) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueRejected("closed")
		metrics.RecordErrorByComponent("queue", "closed")
		return ErrClosed
	}

	select {
	case q.items <- in:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.items))
		return nil
	case <-ctx.Done():
		metrics.RecordQueueRejected("context_cancelled")
		return ctx.Err()
	default:
		metrics.RecordQueueRejected("queue_full")
		metrics.RecordErrorByComponent("queue", "queue_full")
		return ErrFull
	}
}

// Dequeue returns a channel that receives interactions as they arrive.
// Once ctx is done every interaction still waiting is answered with
// ErrStopped and the channel is closed.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Interaction {
	out := make(chan Interaction)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				q.drain()
				return
			case in, ok := <-q.items:
				if !ok {
					return
				}
				select {
				case out <- in:
					metrics.UpdateQueueSize(len(q.items))
				case <-ctx.Done():
					Refuse(in, ErrStopped)
					q.drain()
					return
				}
			}
		}
	}()
	return out
}

// drain answers every buffered interaction with ErrStopped.
func (q *InMemoryQueue) drain() {
	for {
		select {
		case in, ok := <-q.items:
			if !ok {
				return
			}
			Refuse(in, ErrStopped)
		default:
			metrics.UpdateQueueSize(0)
			return
		}
	}
}

// Len returns the current number of waiting interactions.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.items)
	metrics.UpdateQueueSize(size)
	return size
}

// Close stops accepting interactions.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
