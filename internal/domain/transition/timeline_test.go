package transition

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type fakeClock struct{ t time.Time }

func newClock() *fakeClock { return &fakeClock{t: time.Unix(1_000_000, 0)} }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func bg() Key { return Key{Target: "background", Property: "opacity"} }

func mark(id string) Key { return Key{Target: id, Property: "opacity"} }

func TestCubicInOut(t *testing.T) {
	Convey("Cubic in-out is symmetric and bounded", t, func() {
		f := CubicInOut.Fn
		So(f(0), ShouldEqual, 0)
		So(f(1), ShouldEqual, 1)
		So(f(0.5), ShouldEqual, 0.5)
		So(f(0.25), ShouldAlmostEqual, 0.0625, 1e-12)
		So(f(0.75), ShouldAlmostEqual, 0.9375, 1e-12)
		So(Linear.Fn(0.3), ShouldEqual, 0.3)
	})
}

func TestTimeline(t *testing.T) {
	Convey("Given a timeline on a fake clock", t, func() {
		clock := newClock()
		var cut []Key
		tl := New(WithClock(clock.now), WithInterruptHook(func(k Key) { cut = append(cut, k) }))

		Convey("When a property was never set", func() {
			So(tl.Value(bg(), 1), ShouldEqual, 1)
			tr := tl.Start(bg(), 0.3, 200*time.Millisecond)

			Convey("Then it starts at its target", func() {
				So(tr.From, ShouldEqual, 0.3)
			})
		})

		Convey("When a transition runs to completion", func() {
			tl.Set(bg(), 1)
			tl.Start(bg(), 0.3, 200*time.Millisecond)

			clock.advance(100 * time.Millisecond)
			So(tl.Value(bg(), 1), ShouldAlmostEqual, 0.65, 1e-9)
			So(tl.Settled(clock.now()), ShouldBeFalse)

			clock.advance(100 * time.Millisecond)
			Convey("Then it rests on its end value", func() {
				So(tl.Value(bg(), 1), ShouldEqual, 0.3)
				So(tl.Settled(clock.now()), ShouldBeTrue)
			})
		})

		Convey("When a newer transition supersedes one in flight", func() {
			tl.Set(bg(), 1)
			tl.Start(bg(), 0.3, 200*time.Millisecond)
			clock.advance(100 * time.Millisecond)
			mid := tl.Value(bg(), 1)

			tr := tl.Start(bg(), 1, 100*time.Millisecond)

			Convey("Then the new one starts from the current value", func() {
				So(tr.From, ShouldEqual, mid)
				So(tr.To, ShouldEqual, 1)
				So(tl.Keys("background"), ShouldHaveLength, 1)
				So(cut, ShouldResemble, []Key{bg()})
			})

			Convey("Then the old end value is never reached", func() {
				clock.advance(100 * time.Millisecond)
				So(tl.Value(bg(), 0), ShouldEqual, 1)
			})
		})

		Convey("When a transition starts from an explicit value", func() {
			tl.Set(mark("path"), 0.8)
			tr := tl.StartFrom(mark("path"), 0, 1, 300*time.Millisecond)
			So(tr.From, ShouldEqual, 0)
			So(tl.Value(mark("path"), -1), ShouldEqual, 0)
		})

		Convey("When a target is cancelled", func() {
			tl.StartFrom(mark("7"), 0, 1, 2*time.Second)
			tl.StartFrom(Key{Target: "7", Property: "r"}, 0, 12, 2*time.Second)
			tl.StartFrom(mark("8"), 0, 1, 2*time.Second)
			tl.Cancel("7")

			Convey("Then only its properties are gone", func() {
				_, ok := tl.Get(mark("7"))
				So(ok, ShouldBeFalse)
				So(tl.Keys("7"), ShouldBeEmpty)
				So(tl.Keys("8"), ShouldHaveLength, 1)
				So(tl.SettlesAt().Equal(clock.now().Add(2*time.Second)), ShouldBeTrue)
			})
		})
	})
}

func TestStateAt(t *testing.T) {
	Convey("Given a transition halfway through", t, func() {
		start := time.Unix(0, 0)
		tr := Transition{From: 0, To: 1, Start: start, Duration: 2 * time.Second, Ease: CubicInOut}
		st := tr.StateAt(start.Add(time.Second))

		So(st.ElapsedMS, ShouldEqual, 1000)
		So(st.DurationMS, ShouldEqual, 2000)
		So(st.Value, ShouldEqual, 0.5)
		So(st.Easing, ShouldEqual, "cubic-in-out")
		So(tr.StateAt(start.Add(time.Hour)).ElapsedMS, ShouldEqual, 2000)
		So(tr.StateAt(start.Add(-time.Hour)).Value, ShouldEqual, 0)
	})
}
