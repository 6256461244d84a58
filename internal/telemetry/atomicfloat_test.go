package telemetry

import (
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAtomicFloat64LoadStore(t *testing.T) {
	Convey("Given a fresh AtomicFloat64", t, func() {
		af := NewAtomicFloat64(1.5)

		Convey("Load returns the initial value", func() {
			So(af.Load(), ShouldEqual, 1.5)
		})

		Convey("Store replaces the value", func() {
			ok := af.Store(9.0)
			So(ok, ShouldBeTrue)
			So(af.Load(), ShouldEqual, 9.0)
		})

		Convey("Add accumulates the addend", func() {
			newVal, ok := af.Add(2.5)
			So(ok, ShouldBeTrue)
			So(newVal, ShouldEqual, 4.0)
			So(af.Load(), ShouldEqual, 4.0)
		})
	})
}

func TestAtomicFloat64BumpUnderContention(t *testing.T) {
	Convey("Given many goroutines bumping the same counter concurrently", t, func() {
		af := NewAtomicFloat64(0)
		const n = 200

		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func() {
				defer wg.Done()
				af.Bump(1)
			}()
		}
		wg.Wait()

		Convey("Every increment is reflected with none lost to the race", func() {
			So(af.Load(), ShouldEqual, float64(n))
		})
	})
}

func TestMetricsAllStartAtZero(t *testing.T) {
	Convey("Given a fresh Metrics", t, func() {
		m := NewMetrics()

		Convey("Every counter starts at zero", func() {
			So(m.PlanLatencyMs.Load(), ShouldEqual, 0)
			So(m.CommandsDropped.Load(), ShouldEqual, 0)
			So(m.FramesDropped.Load(), ShouldEqual, 0)
		})
	})
}
