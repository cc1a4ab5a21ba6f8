package runtime

import (
	"io"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/aretw0/coroutines/pkg/domain"
)

// entry is one slot of the scheduler's arena.
type entry struct {
	handle domain.Handle
	step   domain.Step
	byRef  bool
	live   bool
}

// Scheduler owns an ordered collection of live steps and advances each of
// them exactly once per Tick.
//
// Structural operations (Start, Stop, StopAll) are guarded by a mutex that is
// never held while a step runs, so steps may call them from inside Advance
// and other goroutines may call them at any time. Tick itself must not be
// called concurrently with another Tick.
type Scheduler struct {
	mu       sync.Mutex
	entries  []*entry
	byHandle map[domain.Handle]*entry
	byStep   map[domain.Step]*entry
	last     domain.Handle
	dead     int
	ticking  bool

	name   string
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithName labels the scheduler in events and logs.
func WithName(name string) SchedulerOption {
	return func(s *Scheduler) {
		s.name = name
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) SchedulerOption {
	return func(s *Scheduler) {
		s.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScheduler creates an empty scheduler.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		byHandle: make(map[domain.Handle]*entry),
		byStep:   make(map[domain.Step]*entry),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the scheduler label.
func (s *Scheduler) Name() string {
	return s.name
}

// Start registers step and returns its handle. The step is not advanced
// until the next Tick that begins after this call.
//
// Pointer-backed steps are registered at most once: starting one that is
// already live returns its existing handle. A nil step is ignored and yields
// the zero handle.
func (s *Scheduler) Start(step domain.Step) domain.Handle {
	if step == nil {
		return 0
	}
	byRef := reflect.TypeOf(step).Kind() == reflect.Pointer

	s.mu.Lock()
	if byRef {
		if e, ok := s.byStep[step]; ok {
			s.mu.Unlock()
			return e.handle
		}
	}
	s.last++
	e := &entry{handle: s.last, step: step, byRef: byRef, live: true}
	s.entries = append(s.entries, e)
	s.byHandle[e.handle] = e
	if byRef {
		s.byStep[step] = e
	}
	s.mu.Unlock()

	s.logger.Debug("step started", "handle", e.handle)
	s.emitStep(s.hooks.OnStepStart, domain.EventStepStart, e.handle)
	return e.handle
}

// StartFunc invokes ctor immediately and registers the step it returns.
func (s *Scheduler) StartFunc(ctor domain.Constructor) domain.Handle {
	return s.Start(ctor())
}

// Stop removes the step registered under h. Unknown or already removed
// handles are ignored. A step that is currently inside Advance completes that
// advance; it is just never advanced again.
func (s *Scheduler) Stop(h domain.Handle) {
	s.mu.Lock()
	e, ok := s.byHandle[h]
	if !ok {
		s.mu.Unlock()
		return
	}
	s.drop(e)
	if !s.ticking {
		s.compact()
	}
	s.mu.Unlock()

	s.logger.Debug("step stopped", "handle", h)
	s.emitStep(s.hooks.OnStepStop, domain.EventStepStop, h)
}

// StopAll discards every registered step without advancing any of them again.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	stopped := make([]domain.Handle, 0, len(s.byHandle))
	for _, e := range s.entries {
		if e.live {
			stopped = append(stopped, e.handle)
			s.drop(e)
		}
	}
	if !s.ticking {
		s.compact()
	}
	s.mu.Unlock()

	if len(stopped) > 0 {
		s.logger.Debug("all steps stopped", "count", len(stopped))
	}
	for _, h := range stopped {
		s.emitStep(s.hooks.OnStepStop, domain.EventStepStop, h)
	}
}

// Len returns the number of live steps.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byHandle)
}

// Handles returns the live handles in registration order.
func (s *Scheduler) Handles() []domain.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Handle, 0, len(s.byHandle))
	for _, e := range s.entries {
		if e.live {
			out = append(out, e.handle)
		}
	}
	return out
}

// Tick advances every live step once, in registration order, then removes
// the ones that finished.
//
// The pass works on a snapshot taken when Tick begins: steps started during
// the pass wait for the next Tick, and steps stopped during the pass are
// skipped if they have not been reached yet. A panic raised by a step
// propagates to the caller after the steps that already finished have been
// removed.
func (s *Scheduler) Tick() {
	began := time.Now()

	s.mu.Lock()
	if s.ticking {
		s.mu.Unlock()
		panic("runtime: Tick called while a tick is in progress")
	}
	s.ticking = true
	snapshot := s.entries[:len(s.entries):len(s.entries)]
	s.mu.Unlock()

	var (
		finished []*entry
		advanced int
	)
	defer func() {
		s.finishTick(finished, advanced, began)
	}()

	for _, e := range snapshot {
		if !s.isLive(e) {
			continue
		}
		advanced++
		if e.step.Advance() {
			finished = append(finished, e)
		}
	}
}

func (s *Scheduler) finishTick(finished []*entry, advanced int, began time.Time) {
	s.mu.Lock()
	removed := make([]domain.Handle, 0, len(finished))
	for _, e := range finished {
		if e.live {
			s.drop(e)
			removed = append(removed, e.handle)
		}
	}
	s.ticking = false
	s.compact()
	live := len(s.byHandle)
	s.mu.Unlock()

	for _, h := range removed {
		s.logger.Debug("step finished", "handle", h)
		s.emitStep(s.hooks.OnStepFinish, domain.EventStepFinish, h)
	}
	if s.hooks.OnTick != nil {
		s.hooks.OnTick(&domain.TickEvent{
			EventBase: s.base(domain.EventTick),
			Advanced:  advanced,
			Finished:  len(removed),
			Live:      live,
			Duration:  time.Since(began),
		})
	}
}

func (s *Scheduler) isLive(e *entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return e.live
}

// drop unregisters e. The caller holds s.mu.
func (s *Scheduler) drop(e *entry) {
	e.live = false
	delete(s.byHandle, e.handle)
	if e.byRef && s.byStep[e.step] == e {
		delete(s.byStep, e.step)
	}
	s.dead++
}

// compact removes dropped entries while keeping registration order.
// The caller holds s.mu and no tick is in progress.
func (s *Scheduler) compact() {
	if s.dead == 0 {
		return
	}
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.live {
			kept = append(kept, e)
		}
	}
	clear(s.entries[len(kept):])
	s.entries = kept
	s.dead = 0
}

func (s *Scheduler) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      t,
		Timeline:  s.name,
	}
}

func (s *Scheduler) emitStep(hook func(*domain.StepEvent), t domain.EventType, h domain.Handle) {
	if hook == nil {
		return
	}
	hook(&domain.StepEvent{EventBase: s.base(t), Handle: h})
}
