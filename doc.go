/*
Package coroutines is a cooperative task scheduler for frame-based applications
such as games, animations and simulations.

Callers register many independent steps (resumable units of work) on a
Timeline. Every Tick advances each registered step exactly once; steps that
report done are discarded. Nothing is preemptive and nothing runs in
parallel: a step does a bounded amount of work per advance and returns.

# Concept

A step is any value implementing domain.Step:

	type Step interface {
		Advance() (done bool)
	}

The steps package provides ready-made constructors (waits, predicate waits,
value animation) and combinators that compose steps sequentially (Sequence),
as a race (WaitFirst) or as a join (WaitLast). Combinators drive their
children with the same one-advance-per-tick protocol, recursively.

# Usage

	tl := coroutines.New()

	x := 0.0
	tl.Start(steps.Sequence(
		steps.Wait(0.5, nil),
		steps.Animate(steps.Ptr(&x), 10.0),
		steps.Call(func() { fmt.Println("done", x) }),
	))

	// Drive it from your own frame callback...
	for tl.Len() > 0 {
		tl.Tick()
		time.Sleep(time.Second / 60)
	}

	// ...or let the timeline reschedule itself through a host primitive.
	tl.StartTicking(runner.DefaultSchedule)

# Clocks

Time-based steps read a domain.Clock. Pass one explicitly, configure one per
timeline with WithClock and read it back with Timeline.Clock, or leave it nil
to use the process-wide source in package clock.
*/
package coroutines
