// Package telemetry holds cross-loop metrics the dispatcher exposes over
// /status: plan latency and drop counters, updated concurrently by the
// planner and comms loops. Nothing increments FramesDropped.
package telemetry

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// AtomicFloat64 wraps a float64 for lock-free reads and CAS-based
// updates, used where the three dispatcher loops would otherwise need a
// mutex just to bump a counter. WARNING: keep critical sections around
// the underlying pointer short — the garbage collector may relocate the
// backing value if nothing else still references it.
type AtomicFloat64 struct {
	val float64
}

// NewAtomicFloat64 wraps val for atomic operations.
func NewAtomicFloat64(val float64) *AtomicFloat64 {
	return &AtomicFloat64{val: val}
}

// Load atomically reads the current value.
func (af *AtomicFloat64) Load() float64 {
	bits := atomic.LoadUint64((*uint64)(unsafe.Pointer(&af.val)))
	return math.Float64frombits(bits)
}

// Add attempts to add addend to the value via compare-and-swap. It does
// not retry on failure: if the value changed concurrently, the caller
// observes that and may recompute from the fresh value instead of
// blindly retrying against a moving target.
func (af *AtomicFloat64) Add(addend float64) (newVal float64, succeeded bool) {
	old := af.Load()
	newVal = old + addend
	succeeded = atomic.CompareAndSwapUint64(
		(*uint64)(unsafe.Pointer(&af.val)),
		math.Float64bits(old),
		math.Float64bits(newVal))
	return
}

// Store sets the value via compare-and-swap against the last observed
// value, returning whether it won the race.
func (af *AtomicFloat64) Store(newVal float64) (succeeded bool) {
	old := af.Load()
	succeeded = atomic.CompareAndSwapUint64(
		(*uint64)(unsafe.Pointer(&af.val)),
		math.Float64bits(old),
		math.Float64bits(newVal))
	return
}

// Metrics is the set of cross-loop counters surfaced on /status.
type Metrics struct {
	PlanLatencyMs   *AtomicFloat64
	CommandsDropped *AtomicFloat64
	FramesDropped   *AtomicFloat64
}

// NewMetrics returns a zeroed Metrics ready for concurrent use.
func NewMetrics() *Metrics {
	return &Metrics{
		PlanLatencyMs:   NewAtomicFloat64(0),
		CommandsDropped: NewAtomicFloat64(0),
		FramesDropped:   NewAtomicFloat64(0),
	}
}

// Bump repeatedly retries Add until it wins the CAS race, for counters
// where losing an occasional increment to a concurrent writer (rather
// than retrying) would undercount.
func (af *AtomicFloat64) Bump(addend float64) float64 {
	for {
		newVal, ok := af.Add(addend)
		if ok {
			return newVal
		}
	}
}
