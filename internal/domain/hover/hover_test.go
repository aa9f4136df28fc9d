package hover

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/freekicks/internal/domain/curve"
	"github.com/okian/freekicks/internal/domain/model"
	"github.com/okian/freekicks/internal/domain/scene"
	"github.com/okian/freekicks/internal/domain/transition"
)

func TestHoverController(t *testing.T) {
	ctx := context.Background()
	start := time.Unix(900, 0)
	now := start

	kick := model.Record{
		ID:           7,
		Origin:       model.Point{X: 100, Y: 200},
		Control:      model.Point{X: 150, Y: 180},
		Target:       model.Point{X: 300, Y: 50},
		CurveTension: 1,
		Category:     "England",
		SeasonLabel:  "2001/02",
		FixtureLabel: "England 2-2 Greece",
	}
	other := kick
	other.ID = 8
	other.Category = "Real Madrid"

	Convey("Given an idle controller on a scene without y inversion", t, func() {
		now = start
		sc := scene.New(scene.WithInvertY(false))
		So(sc.Setup(ctx), ShouldBeNil)
		tl := transition.New(transition.WithClock(func() time.Time { return now }))
		c := New(sc, tl)

		So(tl.Value(key(TargetBackground), -1), ShouldEqual, 1)
		So(tl.Value(key(TargetTooltip), -1), ShouldEqual, 0)
		_, drawn := c.Path()
		So(drawn, ShouldBeFalse)

		Convey("When the pointer enters mark 7", func() {
			So(c.Enter(ctx, kick), ShouldBeNil)

			Convey("Then mark 7 is highlighted with its tooltip", func() {
				So(c.State(7), ShouldEqual, Highlighted)
				So(c.Tooltip(), ShouldResemble, Tooltip{Lines: []string{"2001/02", "England 2-2 Greece"}, Display: true})
			})

			Convey("Then the path runs through the three points in England's color", func() {
				p, ok := c.Path()
				So(ok, ShouldBeTrue)
				want := curve.Bundle([]model.Point{kick.Origin, kick.Control, kick.Target}, 1).String()
				So(p.D, ShouldEqual, want)
				So(p.D, ShouldStartWith, "M100,200")
				So(p.D, ShouldEndWith, "L300,50")
				So(p.Stroke, ShouldEqual, "#fff")
				So(p.StrokeWidth, ShouldEqual, 2)
				So(p.Fill, ShouldEqual, "none")
			})

			Convey("Then the effects settle after their durations", func() {
				tr, _ := tl.Get(key(TargetPath))
				So(tr.From, ShouldEqual, 0)
				So(tr.Duration, ShouldEqual, 300*time.Millisecond)
				now = start.Add(300 * time.Millisecond)
				So(tl.Value(key(TargetBackground), -1), ShouldEqual, 0.3)
				So(tl.Value(key(TargetTooltip), -1), ShouldEqual, 1)
				So(tl.Value(key(TargetPath), -1), ShouldEqual, 1)
			})

			Convey("And the pointer leaves mark 7", func() {
				now = start.Add(time.Second)
				So(c.Leave(ctx, kick), ShouldBeTrue)

				Convey("Then everything fades back over 100ms", func() {
					So(c.State(7), ShouldEqual, Idle)
					now = start.Add(time.Second + 100*time.Millisecond)
					So(tl.Value(key(TargetBackground), -1), ShouldEqual, 1)
					So(tl.Value(key(TargetTooltip), -1), ShouldEqual, 0)
					So(tl.Value(key(TargetPath), -1), ShouldEqual, 0)
				})

				Convey("Then the path keeps its shape while hidden", func() {
					_, ok := c.Path()
					So(ok, ShouldBeTrue)
				})
			})

			Convey("And the pointer leaves a mark that is not highlighted", func() {
				So(c.Leave(ctx, other), ShouldBeFalse)
				So(c.State(7), ShouldEqual, Highlighted)
			})

			Convey("And the pointer enters mark 8", func() {
				So(c.Enter(ctx, other), ShouldBeNil)

				Convey("Then mark 8 replaces mark 7", func() {
					So(c.State(7), ShouldEqual, Idle)
					So(c.State(8), ShouldEqual, Highlighted)
					p, _ := c.Path()
					So(p.RecordID, ShouldEqual, 8)
					So(p.Stroke, ShouldEqual, "#5f5c5c")
				})
			})

			Convey("And mark 7 exits the chart", func() {
				c.Forget(other)
				So(c.State(7), ShouldEqual, Highlighted)
				c.Forget(kick)
				_, ok := c.Highlighted()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When entering a record with an unmapped category", func() {
			bad := kick
			bad.Category = "Unknown FC"
			err := c.Enter(ctx, bad)
			So(errors.Is(err, model.ErrUnmappedCategory), ShouldBeTrue)
			So(c.State(7), ShouldEqual, Idle)
		})
	})
}
