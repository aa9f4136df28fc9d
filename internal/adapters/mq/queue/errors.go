package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrFull    = errors.New("interaction queue is full")
	ErrClosed  = errors.New("interaction queue is closed")
	ErrStopped = errors.New("ui loop stopped")
)
