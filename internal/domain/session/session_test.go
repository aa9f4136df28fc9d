package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/freekicks/internal/domain/chart"
)

func sequence() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}
}

func TestInMemoryRegistry(t *testing.T) {
	ctx := context.Background()

	Convey("Given a registry with capacity 2", t, func() {
		reg := NewInMemoryRegistry(WithCapacity(2), WithIDGenerator(sequence()))
		a, b, c := &chart.Chart{}, &chart.Chart{}, &chart.Chart{}

		Convey("When sessions are created", func() {
			idA := reg.Create(ctx, a)
			idB := reg.Create(ctx, b)

			Convey("Then each is retrievable by id", func() {
				So(idA, ShouldEqual, "s1")
				got, err := reg.Get(ctx, idB)
				So(err, ShouldBeNil)
				So(got, ShouldPointTo, b)
				So(reg.Size(), ShouldEqual, 2)
			})

			Convey("Then a third evicts the oldest", func() {
				idC := reg.Create(ctx, c)
				_, err := reg.Get(ctx, idA)
				So(errors.Is(err, ErrSessionNotFound), ShouldBeTrue)
				got, err := reg.Get(ctx, idC)
				So(err, ShouldBeNil)
				So(got, ShouldPointTo, c)
				So(reg.Size(), ShouldEqual, 2)
			})

			Convey("Then deleting frees a slot without evicting", func() {
				So(reg.Delete(ctx, idA), ShouldBeTrue)
				So(reg.Delete(ctx, idA), ShouldBeFalse)
				reg.Create(ctx, c)
				_, err := reg.Get(ctx, idB)
				So(err, ShouldBeNil)
				So(reg.Size(), ShouldEqual, 2)
			})
		})

		Convey("When the generator repeats an id", func() {
			ids := []string{"x", "x", "y"}
			i := 0
			reg := NewInMemoryRegistry(WithIDGenerator(func() string { id := ids[i]; i++; return id }))
			first := reg.Create(ctx, a)
			second := reg.Create(ctx, b)
			So(first, ShouldEqual, "x")
			So(second, ShouldEqual, "y")
		})
	})

	Convey("Given the default registry", t, func() {
		reg := NewInMemoryRegistry(WithCapacity(-1))

		Convey("Concurrent creates are all kept", func() {
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					reg.Create(ctx, &chart.Chart{})
				}()
			}
			wg.Wait()
			So(reg.Size(), ShouldEqual, 50)
		})
	})
}
