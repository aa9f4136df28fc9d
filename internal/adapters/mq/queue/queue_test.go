package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func interaction(sid string) Interaction {
	in, _ := NewInteraction(KindFrame, sid)
	return in
}

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a queue with capacity two", t, func() {
		q := NewInMemoryQueue(WithCapacity(2))
		So(q.Len(ctx), ShouldEqual, 0)

		Convey("When an interaction is enqueued and dequeued", func() {
			So(q.Enqueue(ctx, interaction("s1")), ShouldBeNil)
			So(q.Len(ctx), ShouldEqual, 1)
			got := <-q.Dequeue(ctx)

			Convey("Then it arrives unchanged", func() {
				So(got.SessionID, ShouldEqual, "s1")
				So(got.Kind, ShouldEqual, KindFrame)
				So(q.Len(ctx), ShouldEqual, 0)
			})
		})

		Convey("When the queue is full", func() {
			So(q.Enqueue(ctx, interaction("s1")), ShouldBeNil)
			So(q.Enqueue(ctx, interaction("s2")), ShouldBeNil)
			err := q.Enqueue(ctx, interaction("s3"))

			Convey("Then the next interaction is refused", func() {
				So(errors.Is(err, ErrFull), ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, interaction("s1")), ShouldBeNil)
			So(q.IsClosed(), ShouldBeFalse)
			So(q.Close(), ShouldBeNil)

			Convey("Then waiting interactions drain and new ones are refused", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(errors.Is(q.Enqueue(ctx, interaction("s2")), ErrClosed), ShouldBeTrue)
				ch := q.Dequeue(ctx)
				first, ok := <-ch
				So(ok, ShouldBeTrue)
				So(first.SessionID, ShouldEqual, "s1")
				select {
				case _, ok := <-ch:
					So(ok, ShouldBeFalse)
				case <-time.After(time.Second):
					So("dequeue channel not closed", ShouldBeEmpty)
				}
				So(q.Close(), ShouldBeNil)
			})
		})
	})

	Convey("Given concurrent producers and one consumer", t, func() {
		q := NewInMemoryQueue(WithCapacity(16))
		const producers, each = 4, 50
		var wg sync.WaitGroup
		for p := 0; p < producers; p++ {
			wg.Add(1)
			go func(p int) {
				defer wg.Done()
				for i := 0; i < each; i++ {
					for q.Enqueue(ctx, interaction(fmt.Sprintf("%d-%d", p, i))) != nil {
						time.Sleep(time.Millisecond)
					}
				}
			}(p)
		}

		seen := 0
		ch := q.Dequeue(ctx)
		done := make(chan struct{})
		go func() {
			wg.Wait()
			_ = q.Close()
			close(done)
		}()
		for range ch {
			seen++
		}
		<-done

		So(seen, ShouldEqual, producers*each)
	})

	Convey("Given waiting interactions when the consumer stops", t, func() {
		q := NewInMemoryQueue(WithCapacity(4))
		var replies []<-chan Result
		for _, sid := range []string{"a", "b", "c"} {
			in, reply := NewInteraction(KindSelect, sid)
			So(q.Enqueue(ctx, in), ShouldBeNil)
			replies = append(replies, reply)
		}

		stopCtx, stop := context.WithCancel(ctx)
		stop()
		ch := q.Dequeue(stopCtx)

		Convey("Then every waiting interaction is refused and the channel closes", func() {
			refused := 0
			for _, reply := range replies {
				select {
				case res := <-reply:
					So(errors.Is(res.Err, ErrStopped), ShouldBeTrue)
					refused++
				case <-time.After(time.Second):
				}
			}
			delivered := 0
			for range ch {
				delivered++
			}
			So(delivered, ShouldEqual, 0)
			So(refused, ShouldEqual, 3)
			So(q.Len(ctx), ShouldEqual, 0)
		})
	})

	Convey("Refuse never blocks", t, func() {
		in, reply := NewInteraction(KindFrame, "s")
		Refuse(in, ErrStopped)
		Refuse(in, ErrStopped)
		So((<-reply).Err, ShouldEqual, ErrStopped)
		So(func() { Refuse(Interaction{}, ErrStopped) }, ShouldNotPanic)
	})
}
