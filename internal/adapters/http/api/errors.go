package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/freekicks/internal/adapters/mq/queue"
	"github.com/okian/freekicks/internal/adapters/repository"
	"github.com/okian/freekicks/internal/domain/filter"
	"github.com/okian/freekicks/internal/domain/render"
	"github.com/okian/freekicks/internal/domain/session"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("service unavailable")
)

// Error is an API error tagged with the operation that produced it and the
// kind that decides the status code.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Kind == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Is matches the kind.
func (e *Error) Is(target error) bool { return e.Kind == target }

func (e *Error) Unwrap() error { return e.Err }

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind tags err with op and kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Wrap tags err with op and derives its kind.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kindOf(err), Err: err}
}

func kindOf(err error) error {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, filter.ErrUnknownCategory):
		return ErrBadRequest
	case errors.Is(err, ErrNotFound),
		errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, repository.ErrNotFound),
		errors.Is(err, render.ErrUnknownMark):
		return ErrNotFound
	case errors.Is(err, ErrBackpressure),
		errors.Is(err, queue.ErrFull):
		return ErrBackpressure
	case errors.Is(err, ErrUnavailable),
		errors.Is(err, queue.ErrClosed),
		errors.Is(err, queue.ErrStopped),
		errors.Is(err, context.DeadlineExceeded):
		return ErrUnavailable
	default:
		return nil
	}
}

// statusOf maps an error to its status code and response code.
func statusOf(err error) (int, string) {
	switch kindOf(err) {
	case ErrBadRequest:
		return http.StatusBadRequest, "bad_request"
	case ErrNotFound:
		return http.StatusNotFound, "not_found"
	case ErrBackpressure:
		return http.StatusTooManyRequests, "backpressure"
	case ErrUnavailable:
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
