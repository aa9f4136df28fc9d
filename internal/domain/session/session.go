// Package session keeps the chart of every connected viewer.
package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/okian/freekicks/internal/domain/chart"
	"github.com/okian/freekicks/pkg/metrics"
)

const defaultCapacity = 1024

// Registry maps session ids to charts.
type Registry interface {
	// Create stores c under a new id and returns the id.
	Create(ctx context.Context, c *chart.Chart) string
	// Get returns the chart of id or ErrSessionNotFound.
	Get(ctx context.Context, id string) (*chart.Chart, error)
	// Delete drops id. It reports whether id was present.
	Delete(ctx context.Context, id string) bool

	Size() int64
}

// node is one session in creation order, newest at head.
type node struct {
	id    string
	chart *chart.Chart
	next  *node
}

func (n *node) reset() {
	n.id = ""
	n.chart = nil
	n.next = nil
}

// inMemoryRegistry is bounded; once full the oldest session is evicted.
type inMemoryRegistry struct {
	mu       sync.RWMutex
	byID     map[string]*node
	head     *node
	capacity int
	size     atomic.Int64
	nodePool sync.Pool
	newID    func() string
}

// NewInMemoryRegistry creates a bounded session registry.
func NewInMemoryRegistry(opts ...Option) Registry {
	r := &inMemoryRegistry{
		capacity: defaultCapacity,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.byID = make(map[string]*node, r.capacity)
	r.nodePool = sync.Pool{
		New: func() interface{} {
			return &node{}
		},
	}
	return r
}

func (r *inMemoryRegistry) Create(ctx context.Context, c *chart.Chart) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	for _, taken := r.byID[id]; taken; _, taken = r.byID[id] {
		id = r.newID()
	}

	if len(r.byID) >= r.capacity {
		r.evictOldest()
	}

	n := r.nodePool.Get().(*node)
	n.id = id
	n.chart = c
	n.next = r.head
	r.head = n
	r.byID[id] = n

	r.size.Add(1)
	metrics.RecordSessionCreated()
	metrics.UpdateSessionsActive(len(r.byID))
	return id
}

func (r *inMemoryRegistry) Get(ctx context.Context, id string) (*chart.Chart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.byID[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return n.chart, nil
}

func (r *inMemoryRegistry) Delete(ctx context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)

	if r.head == n {
		r.head = n.next
	} else {
		current := r.head
		for current != nil && current.next != n {
			current = current.next
		}
		if current != nil {
			current.next = n.next
		}
	}
	n.reset()
	r.nodePool.Put(n)

	r.size.Add(-1)
	metrics.UpdateSessionsActive(len(r.byID))
	return true
}

// evictOldest removes the tail of the list. Must be called with r.mu held.
func (r *inMemoryRegistry) evictOldest() {
	if r.head == nil {
		return
	}
	var prev *node
	current := r.head
	for current.next != nil {
		prev = current
		current = current.next
	}
	if prev == nil {
		r.head = nil
	} else {
		prev.next = nil
	}
	delete(r.byID, current.id)
	current.reset()
	r.nodePool.Put(current)

	r.size.Add(-1)
	metrics.RecordSessionEvicted()
}

func (r *inMemoryRegistry) Size() int64 {
	return r.size.Load()
}
