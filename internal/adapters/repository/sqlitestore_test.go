package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/freekicks/internal/domain/model"
)

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	records := []model.Record{
		{ID: 3, Origin: model.Point{X: 1, Y: 2}, Control: model.Point{X: 3, Y: 4}, Target: model.Point{X: 5, Y: 6},
			CurveTension: 0.5, Category: "England", SeasonLabel: "2001", FixtureLabel: "England v Greece"},
		{ID: 1, Category: "Real Madrid", SeasonLabel: "2004", FixtureLabel: "Real v Betis"},
		{ID: 2, Category: "England", SeasonLabel: "2002", FixtureLabel: "England v Colombia"},
	}

	Convey("Given an in-memory SQLite store", t, func() {
		s, err := NewSQLiteStore(ctx, "")
		So(err, ShouldBeNil)
		defer s.Close()
		So(s.Replace(ctx, records), ShouldBeNil)

		Convey("Then records round-trip by id", func() {
			r, err := s.Get(ctx, 3)
			So(err, ShouldBeNil)
			So(r, ShouldResemble, records[0])

			_, err = s.Get(ctx, 99)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("Then All and ByCategory keep source order", func() {
			So(s.All(ctx), ShouldResemble, records)
			england := s.ByCategory(ctx, "England")
			So(len(england), ShouldEqual, 2)
			So(england[0].ID, ShouldEqual, 3)
			So(england[1].ID, ShouldEqual, 2)
			So(s.ByCategory(ctx, "LA Galaxy"), ShouldBeEmpty)
			So(s.Count(ctx), ShouldEqual, 3)
		})

		Convey("Then a duplicate id leaves the data unchanged", func() {
			err := s.Replace(ctx, []model.Record{{ID: 7}, {ID: 7}})
			So(errors.Is(err, ErrDuplicateID), ShouldBeTrue)
			So(s.Count(ctx), ShouldEqual, 3)
		})

		Convey("Then List returns the records", func() {
			all, err := s.List(ctx)
			So(err, ShouldBeNil)
			So(all, ShouldResemble, records)
		})

		Convey("Then reads on a closed database fail", func() {
			So(s.Close(), ShouldBeNil)
			_, err := s.List(ctx)
			So(err, ShouldNotBeNil)
			So(s.All(ctx), ShouldBeEmpty)
			So(s.ByCategory(ctx, "England"), ShouldBeEmpty)
			So(s.Count(ctx), ShouldEqual, 0)
		})

		Convey("Then Replace swaps everything", func() {
			So(s.Replace(ctx, records[1:2]), ShouldBeNil)
			So(s.Count(ctx), ShouldEqual, 1)
		})
	})

	Convey("Given a file-backed store", t, func() {
		path := filepath.Join(t.TempDir(), "kicks.db")
		s, err := NewSQLiteStore(ctx, path)
		So(err, ShouldBeNil)
		So(s.Replace(ctx, records), ShouldBeNil)
		So(s.Close(), ShouldBeNil)

		Convey("Then a reopened store sees the data", func() {
			again, err := NewSQLiteStore(ctx, path)
			So(err, ShouldBeNil)
			defer again.Close()
			So(again.Count(ctx), ShouldEqual, 3)
		})
	})
}
