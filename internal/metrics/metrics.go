// Package metrics holds process-wide counters for instrumenting PyRat
// engines that run many game instances concurrently (e.g. a driver
// simulating several games at once, or the maze generator's parallel
// retry racer). A single game instance is owned by one caller and never
// needs atomics for its own state (see §5 of the spec); these counters
// exist for the case where several independent instances report into a
// shared tally from different goroutines.
package metrics

import (
	"math"
	"sync/atomic"
)

// AtomicFloat64 encapsulates a float64 for lock-free atomic operations, via
// the bit-reinterpretation trick used because Go has no native atomic
// float type. Adapted from a per-agent value accumulator into a
// package-level telemetry counter.
type AtomicFloat64 struct {
	bits atomic.Uint64
}

// NewAtomicFloat64 returns a counter initialized to val.
func NewAtomicFloat64(val float64) *AtomicFloat64 {
	af := &AtomicFloat64{}
	af.bits.Store(math.Float64bits(val))
	return af
}

// Load atomically reads the current value.
func (af *AtomicFloat64) Load() float64 {
	return math.Float64frombits(af.bits.Load())
}

// Add atomically adds addend and returns the new value. Retries the
// compare-and-swap until it wins; the caller never observes a lost update.
func (af *AtomicFloat64) Add(addend float64) float64 {
	for {
		oldBits := af.bits.Load()
		newVal := math.Float64frombits(oldBits) + addend
		if af.bits.CompareAndSwap(oldBits, math.Float64bits(newVal)) {
			return newVal
		}
	}
}

// Engine aggregates counters across every game and generator invocation in
// the current process.
type Engine struct {
	GamesCreated      atomic.Uint64
	GeneratorAttempts atomic.Uint64
	GeneratorRetries  atomic.Uint64
	CumulativeScore   *AtomicFloat64
}

// Global is the process-wide instance the engine and demo driver report
// into. Tests construct their own Engine to avoid cross-test interference.
var Global = New()

// New returns a fresh, zeroed Engine.
func New() *Engine {
	return &Engine{CumulativeScore: NewAtomicFloat64(0)}
}

// RecordGameCreated increments the games-created counter.
func (e *Engine) RecordGameCreated() {
	e.GamesCreated.Add(1)
}

// RecordGeneratorAttempt increments the generator-attempts counter and,
// when succeeded is false, the retry counter.
func (e *Engine) RecordGeneratorAttempt(succeeded bool) {
	e.GeneratorAttempts.Add(1)
	if !succeeded {
		e.GeneratorRetries.Add(1)
	}
}

// RecordFinalScores adds both players' final scores to the running total.
func (e *Engine) RecordFinalScores(p1, p2 float32) {
	e.CumulativeScore.Add(float64(p1) + float64(p2))
}
