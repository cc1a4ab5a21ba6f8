/*
Package runner provides host frame primitives for driving timelines.

A timeline advances one tick at a time and never loops on its own. The driver
loop (Timeline.StartTicking) hands itself to a domain.ScheduleFunc after every
tick; this package supplies the functions that decide when "the next frame" is.

# Key Components

  - Loop: a single-goroutine event loop. Every callback, and therefore every
    tick driven through it, runs on the goroutine that called Run.
  - AfterFunc / DefaultSchedule: timer-backed primitives, the closest Go
    analogue to a browser's animation frame callback.
  - SignalManager: cancels a context on SIGINT/SIGTERM so hosts can stop a loop.

# Usage

	loop := runner.NewLoop(runner.WithInterval(time.Second / 60))
	tl := coroutines.New()
	tl.Start(steps.WaitFrames(10))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop.Schedule(func() { tl.StartTicking(loop.Schedule) })
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
*/
package runner
