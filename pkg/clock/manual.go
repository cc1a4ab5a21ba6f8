package clock

import (
	"math"
	"sync/atomic"

	"github.com/aretw0/coroutines/pkg/domain"
)

// Manual is a clock that only moves when told to.
// Its zero value reads 0 and is ready to use.
type Manual struct {
	bits atomic.Uint64
}

// NewManual returns a Manual clock reading start.
func NewManual(start float64) *Manual {
	m := &Manual{}
	m.Set(start)
	return m
}

// Now returns the current reading in seconds.
func (m *Manual) Now() float64 {
	return math.Float64frombits(m.bits.Load())
}

// Set moves the clock to an absolute reading. Moving it backwards is allowed;
// steps simply compare reads.
func (m *Manual) Set(seconds float64) {
	m.bits.Store(math.Float64bits(seconds))
}

// Advance moves the clock forward by delta seconds and returns the new reading.
func (m *Manual) Advance(delta float64) float64 {
	for {
		old := m.bits.Load()
		next := math.Float64frombits(old) + delta
		if m.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// Clock exposes m as a domain.Clock.
func (m *Manual) Clock() domain.Clock {
	return m.Now
}

// Stepped returns a clock that advances m by step seconds on every read.
// It turns frame counts into time, which makes runs reproducible.
func (m *Manual) Stepped(step float64) domain.Clock {
	return func() float64 {
		return m.Advance(step)
	}
}
