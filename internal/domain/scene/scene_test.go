package scene

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/freekicks/internal/domain/model"
)

func TestLinearScale(t *testing.T) {
	Convey("Given linear scales", t, func() {
		identity := NewLinear(0, 700, 0, 700)
		inverted := NewLinear(0, 590, 590, 0)

		So(identity.Apply(328), ShouldEqual, 328)
		So(inverted.Apply(0), ShouldEqual, 590)
		So(inverted.Apply(590), ShouldEqual, 0)
		So(inverted.Apply(100), ShouldAlmostEqual, 490, 1e-9)
		So(inverted.Invert(490), ShouldAlmostEqual, 100, 1e-9)
		So(NewLinear(5, 5, 0, 10).Apply(5), ShouldEqual, 5)
	})
}

func TestColorScale(t *testing.T) {
	Convey("Given the default palette", t, func() {
		cs, err := NewColorScale(DefaultPalette())
		So(err, ShouldBeNil)

		Convey("Then the domain keeps palette order", func() {
			So(cs.Domain(), ShouldResemble, []string{
				"AC Milan", "England", "LA Galaxy", "Manchester United", "Preston North End", "Real Madrid",
			})
		})

		Convey("Then known categories resolve to their colors", func() {
			c, err := cs.Color("England")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, "#fff")
			So(cs.Has("Real Madrid"), ShouldBeTrue)
		})

		Convey("Then unknown categories are errors, not fallbacks", func() {
			_, err := cs.Color("Unknown FC")
			So(errors.Is(err, model.ErrUnmappedCategory), ShouldBeTrue)
			So(cs.Has("Unknown FC"), ShouldBeFalse)
		})
	})

	Convey("Given bad palettes", t, func() {
		_, empty := NewColorScale(nil)
		_, dup := NewColorScale([]PaletteEntry{{"A", "#000"}, {"A", "#111"}})
		_, color := NewColorScale([]PaletteEntry{{"A", "red"}})
		_, blank := NewColorScale([]PaletteEntry{{" ", "#000"}})
		_, reserved := NewColorScale([]PaletteEntry{{"England", "#fff"}, {" All ", "#000"}})
		So(reserved, ShouldNotBeNil)
		So(reserved.Error(), ShouldContainSubstring, `"All"`)
		So(empty, ShouldNotBeNil)
		So(dup, ShouldNotBeNil)
		So(color, ShouldNotBeNil)
		So(blank, ShouldNotBeNil)
	})
}

func TestSceneSetup(t *testing.T) {
	ctx := context.Background()

	Convey("Given a default scene", t, func() {
		s := New()
		So(s.Setup(ctx), ShouldBeNil)

		Convey("Then the surface and background cover 700x590", func() {
			So(s.Width(), ShouldEqual, 700)
			So(s.Height(), ShouldEqual, 590)
			bg := s.Background()
			So(bg.Href, ShouldEqual, DefaultBackgroundHref)
			So(bg.Width, ShouldEqual, 700)
			So(bg.Height, ShouldEqual, 590)
			So(bg.Opacity, ShouldEqual, 1)
		})

		Convey("Then y is inverted and x is identity", func() {
			p := s.Project(model.Point{X: 100, Y: 200})
			So(p.X, ShouldEqual, 100)
			So(p.Y, ShouldAlmostEqual, 390, 1e-9)
		})

		Convey("Then a second setup is a no-op", func() {
			colors := s.Colors()
			So(s.Setup(ctx), ShouldBeNil)
			So(s.Colors(), ShouldPointTo, colors)
		})
	})

	Convey("Given a scene without y inversion", t, func() {
		s := New(WithInvertY(false))
		So(s.Setup(ctx), ShouldBeNil)
		So(s.Project(model.Point{X: 1, Y: 200}).Y, ShouldAlmostEqual, 200, 1e-9)
	})

	Convey("Given invalid configurations", t, func() {
		cases := map[string]*Scene{
			"surface":    New(WithSize(0, 590)),
			"palette":    New(WithPalette([]PaletteEntry{{"A", "nope"}})),
			"background": New(WithBackgroundHref("")),
			"anchors":    New(WithAnchors(Anchors{Surface: "#chart"})),
		}
		for component, s := range cases {
			err := s.Setup(ctx)
			var se *SetupError
			So(errors.As(err, &se), ShouldBeTrue)
			So(se.Component, ShouldEqual, component)
			So(errors.Is(err, ErrSetup), ShouldBeTrue)
		}
	})

	Convey("Given an anchor check that finds a missing element", t, func() {
		var checked []string
		s := New(WithAnchorCheck(func(ids []string) error {
			checked = ids
			return errors.New("missing #legend")
		}))
		err := s.Setup(ctx)

		Convey("Then setup fails with the anchors component", func() {
			So(checked, ShouldResemble, []string{"chart", "club-filter", "tooltip", "legend"})
			So(err.Error(), ShouldContainSubstring, "missing #legend")
			So(err.Error(), ShouldContainSubstring, "anchors")
		})
	})
}
