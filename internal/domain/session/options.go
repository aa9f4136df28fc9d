package session

// Option applies a configuration option to the in-memory registry.
type Option func(*inMemoryRegistry)

// WithCapacity sets the maximum number of sessions kept in memory.
// The oldest session is evicted when a new one would exceed it.
func WithCapacity(capacity int) Option {
	return func(r *inMemoryRegistry) {
		if capacity > 0 {
			r.capacity = capacity
		}
	}
}

// WithIDGenerator replaces uuid.NewString for session ids.
func WithIDGenerator(gen func() string) Option {
	return func(r *inMemoryRegistry) {
		if gen != nil {
			r.newID = gen
		}
	}
}
