// Package transition animates numeric properties of named targets. A
// Timeline keeps at most one transition per (target, property); starting a
// new one supersedes the old one from its current value.
package transition

import (
	"math"
	"sort"
	"time"

	"github.com/okian/freekicks/pkg/metrics"
)

// Key identifies an animated property.
type Key struct {
	Target   string
	Property string
}

// Transition interpolates one property between two values.
type Transition struct {
	From     float64
	To       float64
	Start    time.Time
	Duration time.Duration
	Ease     Easing
}

// Progress is the eased progress at time at, in [0,1].
func (t Transition) Progress(at time.Time) float64 {
	if t.Duration <= 0 || !at.Before(t.Start.Add(t.Duration)) {
		return 1
	}
	elapsed := at.Sub(t.Start)
	if elapsed <= 0 {
		return 0
	}
	ease := t.Ease.Fn
	if ease == nil {
		ease = CubicInOut.Fn
	}
	return ease(float64(elapsed) / float64(t.Duration))
}

// Value is the interpolated value at time at.
func (t Transition) Value(at time.Time) float64 {
	return t.From + (t.To-t.From)*t.Progress(at)
}

// Settled reports whether the transition has finished at time at.
func (t Transition) Settled(at time.Time) bool {
	return !at.Before(t.Start.Add(t.Duration))
}

// State is a serializable view of a transition at a point in time.
type State struct {
	From       float64 `json:"from"`
	To         float64 `json:"to"`
	Value      float64 `json:"value"`
	ElapsedMS  int64   `json:"elapsed_ms"`
	DurationMS int64   `json:"duration_ms"`
	Easing     string  `json:"easing"`
}

// StateAt describes the transition at time at.
func (t Transition) StateAt(at time.Time) State {
	elapsed := at.Sub(t.Start)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > t.Duration {
		elapsed = t.Duration
	}
	name := t.Ease.Name
	if name == "" {
		name = CubicInOut.Name
	}
	return State{
		From:       t.From,
		To:         t.To,
		Value:      round(t.Value(at)),
		ElapsedMS:  elapsed.Milliseconds(),
		DurationMS: t.Duration.Milliseconds(),
		Easing:     name,
	}
}

func round(v float64) float64 { return math.Round(v*1e4) / 1e4 }

// Timeline owns the transitions of one chart. It is not safe for concurrent
// use; callers serialize access.
type Timeline struct {
	now   func() time.Time
	ease  Easing
	items map[Key]Transition
	onCut func(Key)
}

// Option configures a Timeline.
type Option func(*Timeline)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(tl *Timeline) {
		if now != nil {
			tl.now = now
		}
	}
}

// WithEasing sets the easing of new transitions.
func WithEasing(e Easing) Option {
	return func(tl *Timeline) {
		if e.Fn != nil {
			tl.ease = e
		}
	}
}

// WithInterruptHook is called with the key of every superseded transition.
func WithInterruptHook(fn func(Key)) Option {
	return func(tl *Timeline) { tl.onCut = fn }
}

// New creates an empty timeline.
func New(opts ...Option) *Timeline {
	tl := &Timeline{now: time.Now, ease: CubicInOut, items: make(map[Key]Transition)}
	for _, opt := range opts {
		opt(tl)
	}
	return tl
}

// Now reads the timeline clock.
func (tl *Timeline) Now() time.Time { return tl.now() }

// Set jumps the property to v, cancelling any transition on it.
func (tl *Timeline) Set(key Key, v float64) {
	now := tl.now()
	tl.cut(key, now)
	tl.items[key] = Transition{From: v, To: v, Start: now, Ease: tl.ease}
}

// Start animates the property from its current value to to over d. A
// property never set before starts at to.
func (tl *Timeline) Start(key Key, to float64, d time.Duration) Transition {
	now := tl.now()
	from := to
	if cur, ok := tl.items[key]; ok {
		from = cur.Value(now)
	}
	return tl.start(key, from, to, d, now)
}

// StartFrom animates the property from an explicit value.
func (tl *Timeline) StartFrom(key Key, from, to float64, d time.Duration) Transition {
	return tl.start(key, from, to, d, tl.now())
}

func (tl *Timeline) start(key Key, from, to float64, d time.Duration, now time.Time) Transition {
	tl.cut(key, now)
	t := Transition{From: from, To: to, Start: now, Duration: d, Ease: tl.ease}
	tl.items[key] = t
	return t
}

func (tl *Timeline) cut(key Key, now time.Time) {
	if cur, ok := tl.items[key]; ok && !cur.Settled(now) {
		metrics.RecordTransitionInterrupted()
		if tl.onCut != nil {
			tl.onCut(key)
		}
	}
}

// Get returns the transition on key.
func (tl *Timeline) Get(key Key) (Transition, bool) {
	t, ok := tl.items[key]
	return t, ok
}

// Value returns the current value of key, or def when it was never set.
func (tl *Timeline) Value(key Key, def float64) float64 {
	return tl.ValueAt(key, def, tl.now())
}

// ValueAt returns the value of key at time at, or def when it was never set.
func (tl *Timeline) ValueAt(key Key, def float64, at time.Time) float64 {
	t, ok := tl.items[key]
	if !ok {
		return def
	}
	return t.Value(at)
}

// Cancel drops every transition of target.
func (tl *Timeline) Cancel(target string) {
	for k := range tl.items {
		if k.Target == target {
			delete(tl.items, k)
		}
	}
}

// Settled reports whether every transition has finished at time at.
func (tl *Timeline) Settled(at time.Time) bool {
	for _, t := range tl.items {
		if !t.Settled(at) {
			return false
		}
	}
	return true
}

// SettlesAt is the time the last transition finishes.
func (tl *Timeline) SettlesAt() time.Time {
	var last time.Time
	for _, t := range tl.items {
		if end := t.Start.Add(t.Duration); end.After(last) {
			last = end
		}
	}
	return last
}

// Keys returns the animated keys of target sorted by property.
func (tl *Timeline) Keys(target string) []Key {
	var out []Key
	for k := range tl.items {
		if k.Target == target {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Property < out[j].Property })
	return out
}
