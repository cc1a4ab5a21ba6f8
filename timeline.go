package coroutines

import (
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/aretw0/coroutines/internal/runtime"
	"github.com/aretw0/coroutines/pkg/clock"
	"github.com/aretw0/coroutines/pkg/domain"
	"github.com/aretw0/coroutines/pkg/runner"
)

// Timeline is the high-level entry point of the library.
// It wraps the internal scheduler and adds a name, a clock and the driver loop.
type Timeline struct {
	scheduler *runtime.Scheduler
	clock     domain.Clock
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	active    atomic.Bool
	name      string
}

// Option defines a functional option for configuring the Timeline.
type Option func(*Timeline)

// WithName sets the timeline name. By default a random one is generated.
func WithName(name string) Option {
	return func(t *Timeline) {
		t.name = name
	}
}

// WithLogger sets a custom structured logger for the timeline.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Timeline) {
		t.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(t *Timeline) {
		t.hooks = hooks
	}
}

// WithClock sets the clock returned by Timeline.Clock.
func WithClock(c domain.Clock) Option {
	return func(t *Timeline) {
		t.clock = c
	}
}

// New creates an empty, active timeline.
func New(opts ...Option) *Timeline {
	t := &Timeline{}
	for _, opt := range opts {
		opt(t)
	}

	if t.name == "" {
		t.name = "timeline-" + uuid.NewString()[:8]
	}
	// Ensure logger is initialized so the scheduler never sees nil
	if t.logger == nil {
		t.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	t.logger = t.logger.With("timeline", t.name)

	t.scheduler = runtime.NewScheduler(
		runtime.WithName(t.name),
		runtime.WithLogger(t.logger),
		runtime.WithLifecycleHooks(t.hooks),
	)
	t.active.Store(true)
	return t
}

// Name returns the timeline name.
func (t *Timeline) Name() string {
	return t.name
}

// Clock returns the timeline clock. Without WithClock it reads the
// process-wide source at every call.
func (t *Timeline) Clock() domain.Clock {
	return clock.Or(t.clock)
}

// Logger returns the timeline logger.
func (t *Timeline) Logger() *slog.Logger {
	return t.logger
}

// Start schedules step for evaluation and returns its handle.
// Future ticks advance it until it reports done.
func (t *Timeline) Start(step domain.Step) domain.Handle {
	return t.scheduler.Start(step)
}

// StartFunc calls ctor right away and schedules the step it returns.
func (t *Timeline) StartFunc(ctor domain.Constructor) domain.Handle {
	return t.scheduler.StartFunc(ctor)
}

// Stop unschedules a single step. Unknown handles are ignored.
func (t *Timeline) Stop(h domain.Handle) {
	t.scheduler.Stop(h)
}

// StopAll discards every scheduled step.
func (t *Timeline) StopAll() {
	t.scheduler.StopAll()
}

// Tick advances every scheduled step once and drops the finished ones.
func (t *Timeline) Tick() {
	t.scheduler.Tick()
}

// Len returns the number of scheduled steps.
func (t *Timeline) Len() int {
	return t.scheduler.Len()
}

// Handles returns the scheduled handles in registration order.
func (t *Timeline) Handles() []domain.Handle {
	return t.scheduler.Handles()
}

// Active reports whether the driver loop keeps rescheduling itself.
func (t *Timeline) Active() bool {
	return t.active.Load()
}

// SetActive switches the driver loop on or off. Switching it off lets the
// in-flight tick complete and stops the chain there; a frame that was
// already requested from the host still runs its tick once.
func (t *Timeline) SetActive(active bool) {
	t.active.Store(active)
}

// StartTicking ticks once right away and, while the timeline is active, asks
// schedule to run the next tick on the next frame. It returns as soon as the
// next frame has been requested. A nil schedule uses runner.DefaultSchedule.
func (t *Timeline) StartTicking(schedule domain.ScheduleFunc) {
	if schedule == nil {
		schedule = runner.DefaultSchedule
	}
	t.logger.Debug("ticking started")

	var frame func()
	frame = func() {
		t.Tick()
		if t.active.Load() {
			schedule(frame)
			return
		}
		t.logger.Debug("ticking stopped")
	}
	frame()
}
