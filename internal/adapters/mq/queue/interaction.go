package queue

import (
	"github.com/okian/freekicks/internal/domain/chart"
	"github.com/okian/freekicks/internal/domain/render"
)

// Kind names what an interaction does to a chart.
type Kind string

// Interaction kinds.
const (
	KindCreate  Kind = "create"
	KindFrame   Kind = "frame"
	KindSettled Kind = "settled"
	KindSelect  Kind = "select"
	KindEnter   Kind = "enter"
	KindLeave   Kind = "leave"
	KindClose   Kind = "close"
)

// Interaction is one command for the UI loop. Reply must be buffered; the
// loop never blocks on it.
type Interaction struct {
	Kind      Kind
	SessionID string
	Category  string
	RecordID  int
	Reply     chan<- Result
}

// Result is the outcome of an interaction.
type Result struct {
	SessionID string
	Frame     chart.Frame
	Diff      render.Diff
	Err       error
}

// NewInteraction returns an interaction with a fresh reply channel.
func NewInteraction(kind Kind, sessionID string) (Interaction, <-chan Result) {
	reply := make(chan Result, 1)
	return Interaction{Kind: kind, SessionID: sessionID, Reply: reply}, reply
}

// Refuse answers in with err without blocking.
func Refuse(in Interaction, err error) {
	if in.Reply == nil {
		return
	}
	select {
	case in.Reply <- Result{SessionID: in.SessionID, Err: err}:
	default:
	}
}
