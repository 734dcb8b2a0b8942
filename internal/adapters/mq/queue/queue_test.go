package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/madsvk/boardfield/internal/adapters/mq/queue"
	"github.com/madsvk/boardfield/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func job(board int) queue.Job {
	return queue.Job{
		RunID: "run-1",
		Key:   model.GroupKey{TournamentDate: "2026-02-14", BoardNo: board, Section: "A"},
	}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a fresh queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(4), queue.WithBufferSize(4))
		ctx := context.Background()

		Convey("When enqueuing jobs within capacity", func() {
			So(q.Enqueue(ctx, job(1)), ShouldBeTrue)
			So(q.Enqueue(ctx, job(2)), ShouldBeTrue)

			Convey("Then the length should reflect the backlog", func() {
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("And dequeue should deliver them in order", func() {
				jobs := q.Dequeue(ctx)

				first := <-jobs
				second := <-jobs
				So(first.Key.BoardNo, ShouldEqual, 1)
				So(second.Key.BoardNo, ShouldEqual, 2)
			})
		})

		Convey("When enqueuing beyond capacity", func() {
			for i := 0; i < 4; i++ {
				So(q.Enqueue(ctx, job(i)), ShouldBeTrue)
			}

			Convey("Then further enqueues should be rejected", func() {
				So(q.Enqueue(ctx, job(99)), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 4)
			})
		})

		Convey("When closing the queue", func() {
			So(q.Enqueue(ctx, job(1)), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then it should report closed and refuse new jobs", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, job(2)), ShouldBeFalse)
			})

			Convey("And closing again should be a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})

			Convey("And dequeue should drain the backlog then close", func() {
				jobs := q.Dequeue(ctx)
				got, ok := <-jobs
				So(ok, ShouldBeTrue)
				So(got.Key.BoardNo, ShouldEqual, 1)

				select {
				case _, open := <-jobs:
					So(open, ShouldBeFalse)
				case <-time.After(time.Second):
					t.Fatal("dequeue channel did not close")
				}
			})
		})

		Convey("When the consumer context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			jobs := q.Dequeue(cctx)
			cancel()

			So(q.Enqueue(ctx, job(1)), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then the dequeue channel should eventually close", func() {
				timeout := time.After(time.Second)
				for {
					select {
					case _, open := <-jobs:
						if !open {
							So(open, ShouldBeFalse)
							return
						}
						// A job already in flight may still be delivered.
					case <-timeout:
						t.Fatal("dequeue channel did not close after cancel")
					}
				}
			})
		})
	})
}
