package steps

import (
	"time"

	"github.com/aretw0/coroutines/pkg/clock"
	"github.com/aretw0/coroutines/pkg/domain"
)

type waitStep struct {
	seconds float64
	clock   domain.Clock
	started bool
	start   float64
}

// Wait returns a step that finishes once clock has advanced by at least
// seconds since the step's first advance. The start time is read lazily on
// that first advance, not here. A nil clock uses the process-wide source.
func Wait(seconds float64, c domain.Clock) domain.Step {
	return &waitStep{seconds: seconds, clock: clock.Or(c)}
}

// WaitFor is Wait expressed as a time.Duration.
func WaitFor(d time.Duration, c domain.Clock) domain.Step {
	return Wait(d.Seconds(), c)
}

func (w *waitStep) Advance() bool {
	now := w.clock()
	if !w.started {
		w.started = true
		w.start = now
	}
	return now-w.start >= w.seconds
}

type framesStep struct {
	remaining int
}

// WaitFrames returns a step that reports not-done for exactly n advances and
// finishes on the next one. n <= 0 finishes on the first advance.
func WaitFrames(n int) domain.Step {
	return &framesStep{remaining: n}
}

func (f *framesStep) Advance() bool {
	if f.remaining <= 0 {
		return true
	}
	f.remaining--
	return false
}
