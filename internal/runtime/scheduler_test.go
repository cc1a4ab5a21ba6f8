package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/coroutines/internal/runtime"
	"github.com/aretw0/coroutines/pkg/domain"
)

// counter finishes on its needed-th advance.
type counter struct {
	needed int
	calls  int
	onStep func()
}

func (c *counter) Advance() bool {
	c.calls++
	if c.onStep != nil {
		c.onStep()
	}
	return c.calls >= c.needed
}

func TestScheduler_TickAdvancesEachOnce(t *testing.T) {
	s := runtime.NewScheduler()

	steps := []*counter{{needed: 1}, {needed: 2}, {needed: 3}, {needed: 1}}
	handles := make([]domain.Handle, len(steps))
	for i, c := range steps {
		handles[i] = s.Start(c)
	}
	for _, c := range steps {
		assert.Equal(t, 0, c.calls, "Start does not advance")
	}

	s.Tick()

	for i, c := range steps {
		assert.Equal(t, 1, c.calls, "step %d", i)
	}
	assert.Equal(t, []domain.Handle{handles[1], handles[2]}, s.Handles())

	s.Tick()
	assert.Equal(t, []domain.Handle{handles[2]}, s.Handles())
	assert.Equal(t, 1, steps[0].calls, "finished steps are not advanced again")

	s.Tick()
	assert.Equal(t, 0, s.Len())
}

func TestScheduler_StartFunc(t *testing.T) {
	s := runtime.NewScheduler()

	built := 0
	h := s.StartFunc(func() domain.Step {
		built++
		return &counter{needed: 1}
	})

	assert.Equal(t, 1, built, "constructor runs immediately")
	assert.True(t, h.Valid())
	assert.Equal(t, 1, s.Len())
}

func TestScheduler_StartNil(t *testing.T) {
	s := runtime.NewScheduler()
	assert.False(t, s.Start(nil).Valid())
	assert.Equal(t, 0, s.Len())
}

func TestScheduler_DuplicateStart(t *testing.T) {
	s := runtime.NewScheduler()
	c := &counter{needed: 10}

	h1 := s.Start(c)
	h2 := s.Start(c)

	assert.Equal(t, h1, h2)
	s.Tick()
	assert.Equal(t, 1, c.calls)

	s.Stop(h1)
	h3 := s.Start(c)
	assert.NotEqual(t, h1, h3, "a stopped step can be registered again")
}

func TestScheduler_FuncStepsAreNotDeduplicated(t *testing.T) {
	s := runtime.NewScheduler()
	calls := 0
	f := domain.StepFunc(func() bool {
		calls++
		return false
	})

	s.Start(f)
	s.Start(f)
	s.Tick()

	assert.Equal(t, 2, calls)
	s.StopAll()
}

func TestScheduler_Stop(t *testing.T) {
	s := runtime.NewScheduler()
	a, b := &counter{needed: 5}, &counter{needed: 5}
	ha := s.Start(a)
	hb := s.Start(b)

	s.Stop(ha)
	s.Tick()

	assert.Equal(t, 0, a.calls)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, []domain.Handle{hb}, s.Handles())
}

func TestScheduler_StopUnknownIsNoop(t *testing.T) {
	s := runtime.NewScheduler()
	a := &counter{needed: 5}
	ha := s.Start(a)
	hb := s.Start(&counter{needed: 5})

	s.Stop(domain.Handle(999))
	s.Stop(0)
	s.Stop(ha)
	s.Stop(ha)

	assert.Equal(t, []domain.Handle{hb}, s.Handles(), "unrelated steps are untouched")
}

func TestScheduler_StopAll(t *testing.T) {
	s := runtime.NewScheduler()
	steps := []*counter{{needed: 2}, {needed: 2}}
	for _, c := range steps {
		s.Start(c)
	}

	s.StopAll()
	s.Tick()

	assert.Equal(t, 0, s.Len())
	for _, c := range steps {
		assert.Equal(t, 0, c.calls, "StopAll then Tick performs zero advances")
	}
}

func TestScheduler_StartDuringTick(t *testing.T) {
	s := runtime.NewScheduler()
	child := &counter{needed: 1}

	parent := &counter{needed: 1}
	parent.onStep = func() { s.Start(child) }
	s.Start(parent)

	s.Tick()
	assert.Equal(t, 0, child.calls, "steps started during a tick wait for the next one")
	assert.Equal(t, 1, s.Len())

	s.Tick()
	assert.Equal(t, 1, child.calls)
	assert.Equal(t, 0, s.Len())
}

func TestScheduler_StopDuringTick(t *testing.T) {
	s := runtime.NewScheduler()
	victim := &counter{needed: 5}
	var hv domain.Handle

	killer := &counter{needed: 5}
	killer.onStep = func() { s.Stop(hv) }

	s.Start(killer)
	hv = s.Start(victim)

	s.Tick()
	assert.Equal(t, 0, victim.calls, "stopped before being reached")
	assert.Equal(t, 1, s.Len())
}

func TestScheduler_SelfStopAndFinish(t *testing.T) {
	var finished []domain.Handle
	s2 := runtime.NewScheduler(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnStepFinish: func(e *domain.StepEvent) { finished = append(finished, e.Handle) },
	}))

	var h domain.Handle
	c := &counter{needed: 1}
	c.onStep = func() { s2.Stop(h) }
	h = s2.Start(c)

	s2.Tick()
	assert.Equal(t, 0, s2.Len())
	assert.Empty(t, finished, "a step that stopped itself is reported as stopped, not finished")
}

func TestScheduler_StopAllDuringTick(t *testing.T) {
	s := runtime.NewScheduler()
	first := &counter{needed: 5}
	first.onStep = func() { s.StopAll() }
	second := &counter{needed: 5}

	s.Start(first)
	s.Start(second)
	s.Tick()

	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
	assert.Equal(t, 0, s.Len())
}

func TestScheduler_PanicPropagatesAndPrunes(t *testing.T) {
	s := runtime.NewScheduler()
	done := &counter{needed: 1}
	boom := domain.StepFunc(func() bool { panic("boom") })

	s.Start(done)
	s.Start(boom)

	assert.PanicsWithValue(t, "boom", s.Tick)
	assert.Equal(t, 1, s.Len(), "the finished step is pruned even though the tick panicked")

	s.StopAll()
	require.NotPanics(t, s.Tick, "the scheduler is usable after a panic")
}

func TestScheduler_ReentrantTickPanics(t *testing.T) {
	s := runtime.NewScheduler()
	s.Start(domain.StepFunc(func() bool {
		s.Tick()
		return true
	}))

	assert.Panics(t, s.Tick)
}

func TestScheduler_Hooks(t *testing.T) {
	var (
		started, stopped, finished []domain.Handle
		ticks                      []*domain.TickEvent
	)
	s := runtime.NewScheduler(
		runtime.WithName("main"),
		runtime.WithLifecycleHooks(domain.LifecycleHooks{
			OnStepStart:  func(e *domain.StepEvent) { started = append(started, e.Handle) },
			OnStepStop:   func(e *domain.StepEvent) { stopped = append(stopped, e.Handle) },
			OnStepFinish: func(e *domain.StepEvent) { finished = append(finished, e.Handle) },
			OnTick:       func(e *domain.TickEvent) { ticks = append(ticks, e) },
		}),
	)

	h1 := s.Start(&counter{needed: 1})
	h2 := s.Start(&counter{needed: 3})
	s.Tick()
	s.Stop(h2)

	assert.Equal(t, "main", s.Name())
	assert.Equal(t, []domain.Handle{h1, h2}, started)
	assert.Equal(t, []domain.Handle{h1}, finished)
	assert.Equal(t, []domain.Handle{h2}, stopped)
	require.Len(t, ticks, 1)
	assert.Equal(t, 2, ticks[0].Advanced)
	assert.Equal(t, 1, ticks[0].Finished)
	assert.Equal(t, 1, ticks[0].Live)
	assert.Equal(t, "main", ticks[0].Timeline)
	assert.Equal(t, domain.EventTick, ticks[0].Type)
}

func TestScheduler_ManyTicksKeepOrder(t *testing.T) {
	s := runtime.NewScheduler()
	var order []int
	for i := 0; i < 50; i++ {
		left := i % 7
		s.Start(domain.StepFunc(func() bool {
			order = append(order, i)
			left--
			return left < 0
		}))
	}

	for s.Len() > 0 {
		order = order[:0]
		s.Tick()
		for j := 1; j < len(order); j++ {
			assert.Less(t, order[j-1], order[j], "insertion order is preserved across compactions")
		}
	}
}
