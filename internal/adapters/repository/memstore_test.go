package repository

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/freekicks/internal/domain/model"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	records := []model.Record{
		{ID: 3, Category: "England"},
		{ID: 1, Category: "Real Madrid"},
		{ID: 2, Category: "England"},
	}

	Convey("Given a seeded store", t, func() {
		s, err := NewMemoryStore(WithRecords(records))
		So(err, ShouldBeNil)

		Convey("Then records are found by id", func() {
			r, err := s.Get(ctx, 1)
			So(err, ShouldBeNil)
			So(r.Category, ShouldEqual, "Real Madrid")

			_, err = s.Get(ctx, 99)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("Then All keeps source order and returns a copy", func() {
			all := s.All(ctx)
			So(all, ShouldResemble, records)
			all[0].Category = "changed"
			So(s.All(ctx)[0].Category, ShouldEqual, "England")
			So(s.Count(ctx), ShouldEqual, 3)

			listed, err := s.List(ctx)
			So(err, ShouldBeNil)
			So(listed, ShouldResemble, records)
		})

		Convey("Then ByCategory keeps source order", func() {
			eng := s.ByCategory(ctx, "England")
			So(eng, ShouldHaveLength, 2)
			So(eng[0].ID, ShouldEqual, 3)
			So(eng[1].ID, ShouldEqual, 2)
			So(s.ByCategory(ctx, "LA Galaxy"), ShouldBeEmpty)
		})

		Convey("When replacing with duplicate ids", func() {
			err := s.Replace(ctx, []model.Record{{ID: 5}, {ID: 5}})

			Convey("Then the old dataset stays", func() {
				So(errors.Is(err, ErrDuplicateID), ShouldBeTrue)
				So(s.Count(ctx), ShouldEqual, 3)
			})
		})
	})

	Convey("Given an empty store", t, func() {
		s, err := NewMemoryStore()
		So(err, ShouldBeNil)
		So(s.Count(ctx), ShouldEqual, 0)
		So(s.All(ctx), ShouldBeEmpty)
	})
}
