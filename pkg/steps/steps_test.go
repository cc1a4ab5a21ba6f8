package steps_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/coroutines/pkg/clock"
	"github.com/aretw0/coroutines/pkg/domain"
	"github.com/aretw0/coroutines/pkg/steps"
)

// probe finishes on its needed-th advance and records every advance in log.
type probe struct {
	name   string
	needed int
	calls  int
	log    *[]string
}

func (p *probe) Advance() bool {
	p.calls++
	if p.log != nil {
		*p.log = append(*p.log, p.name)
	}
	return p.calls >= p.needed
}

// drive advances s until it finishes and returns how many advances it took.
func drive(t *testing.T, s domain.Step, limit int) int {
	t.Helper()
	for i := 1; i <= limit; i++ {
		if s.Advance() {
			return i
		}
	}
	t.Fatalf("step did not finish within %d advances", limit)
	return 0
}

func TestWait(t *testing.T) {
	m := clock.NewManual(5)
	w := steps.Wait(1, m.Clock())

	assert.False(t, w.Advance(), "start time is captured on the first advance")
	m.Set(5.99)
	assert.False(t, w.Advance())
	m.Set(6)
	assert.True(t, w.Advance(), "elapsed == seconds completes")
}

func TestWait_NonPositive(t *testing.T) {
	m := clock.NewManual(0)
	assert.True(t, steps.Wait(0, m.Clock()).Advance())
	assert.True(t, steps.Wait(-3, m.Clock()).Advance())
}

func TestWait_StalledClock(t *testing.T) {
	m := clock.NewManual(0)
	w := steps.WaitFor(500*time.Millisecond, m.Clock())

	for i := 0; i < 10; i++ {
		assert.False(t, w.Advance())
	}
	m.Set(-1)
	assert.False(t, w.Advance(), "a clock running backwards is compared, not compensated")
	m.Set(0.5)
	assert.True(t, w.Advance())
}

func TestWait_ClockReplacedBeforeFirstAdvance(t *testing.T) {
	t.Cleanup(clock.Reset)

	w := steps.Wait(1, nil)

	m := clock.NewManual(100)
	clock.Set(m.Clock())

	assert.False(t, w.Advance())
	m.Set(100.5)
	assert.False(t, w.Advance())
	m.Set(101)
	assert.True(t, w.Advance())
}

func TestWaitFrames(t *testing.T) {
	for _, n := range []int{1, 2, 7} {
		assert.Equal(t, n+1, drive(t, steps.WaitFrames(n), 100), "n=%d", n)
	}
	assert.Equal(t, 1, drive(t, steps.WaitFrames(0), 1))
	assert.Equal(t, 1, drive(t, steps.WaitFrames(-4), 1))
}

func TestWaitUntil(t *testing.T) {
	calls := 0
	s := steps.WaitUntil(func() bool {
		calls++
		return calls == 3
	})

	assert.Equal(t, 3, drive(t, s, 10))
	assert.Equal(t, 3, calls, "predicate is evaluated once per advance")
}

func TestWaitWhile(t *testing.T) {
	open := true
	s := steps.WaitWhile(func() bool { return open })

	assert.False(t, s.Advance())
	assert.False(t, s.Advance())
	open = false
	assert.True(t, s.Advance())
}

func TestWaitUntil_PanicPropagates(t *testing.T) {
	s := steps.WaitUntil(func() bool { panic("boom") })
	assert.PanicsWithValue(t, "boom", func() { s.Advance() })
}

func TestCall(t *testing.T) {
	ran := 0
	s := steps.Call(func() { ran++ })

	assert.True(t, s.Advance())
	assert.Equal(t, 1, ran)
}

func TestSequence(t *testing.T) {
	var log []string
	a := &probe{name: "A", needed: 2, log: &log}
	b := &probe{name: "B", needed: 3, log: &log}

	s := steps.Sequence(a, b)

	assert.False(t, s.Advance(), "picking A up yields")
	assert.Empty(t, log)

	assert.Equal(t, 5, drive(t, s, 20), "2 for A, 3 for B; B is picked up as A finishes")
	assert.Equal(t, []string{"A", "A", "B", "B", "B"}, log, "B never runs before A is done")
}

func TestSequence_Empty(t *testing.T) {
	assert.True(t, steps.Sequence().Advance())
}

func TestSequence_Deferred(t *testing.T) {
	built := 0
	ctor := func() domain.Step {
		built++
		return steps.WaitFrames(1)
	}

	s := steps.Sequence(steps.WaitFrames(1), domain.Defer(ctor))

	assert.False(t, s.Advance())
	assert.False(t, s.Advance())
	assert.Equal(t, 0, built, "constructor runs only when its step is reached")

	drive(t, s, 10)
	assert.Equal(t, 1, built)
}

func TestWaitFirst(t *testing.T) {
	a := &probe{name: "A", needed: 1}
	b := &probe{name: "B", needed: 5}

	assert.Equal(t, 1, drive(t, steps.WaitFirst(a, b), 10))
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls, "B is left unfinished")
}

func TestWaitFirst_AdvancesInOrder(t *testing.T) {
	var log []string
	a := &probe{name: "A", needed: 3, log: &log}
	b := &probe{name: "B", needed: 2, log: &log}

	assert.Equal(t, 2, drive(t, steps.WaitFirst(a, b), 10))
	assert.Equal(t, []string{"A", "B", "A", "B"}, log)
}

func TestWaitLast(t *testing.T) {
	a := &probe{name: "A", needed: 1}
	b := &probe{name: "B", needed: 5}

	assert.Equal(t, 5, drive(t, steps.WaitLast(a, b), 10))
	assert.Equal(t, 1, a.calls, "A is not advanced after it finished")
	assert.Equal(t, 5, b.calls)
}

func TestParallel_Empty(t *testing.T) {
	assert.True(t, steps.WaitFirst().Advance())
	assert.True(t, steps.WaitLast().Advance())
}

func TestNested(t *testing.T) {
	m := clock.NewManual(0)
	var x float64

	s := steps.WaitLast(
		steps.Sequence(steps.WaitFrames(1), steps.Animate(steps.Ptr(&x), 1.0)),
		steps.WaitFirst(steps.Wait(10, m.Clock()), steps.WaitFrames(2)),
	)

	assert.False(t, s.Advance())
	assert.False(t, s.Advance())
	assert.False(t, s.Advance())
	assert.Equal(t, 0.0, x)
}
