package runner

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Loop is a single-goroutine event loop.
//
// Schedule queues callbacks from any goroutine; Run executes them serially on
// its own goroutine. Callbacks queued while a batch is running are deferred to
// the next batch, so a callback that reschedules itself runs once per batch.
// Without an interval a new batch starts as soon as something is queued (the
// "next tick" deferral); with an interval batches start on frame boundaries.
type Loop struct {
	mu       sync.Mutex
	queue    []func()
	wake     chan struct{}
	interval time.Duration
	logger   *slog.Logger
	batches  atomic.Uint64
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithInterval makes the loop run queued callbacks once per frame of length d.
func WithInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		l.interval = d
	}
}

// WithLoopLogger sets the structured logger.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoop creates an idle loop. Nothing runs until Run is called.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		wake:   make(chan struct{}, 1),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Schedule queues callback for the next batch. It has the shape of a
// domain.ScheduleFunc, so loop.Schedule can be handed to a driver directly.
func (l *Loop) Schedule(callback func()) {
	l.mu.Lock()
	l.queue = append(l.queue, callback)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Do runs fn on the loop goroutine and waits for it to return.
// It fails with the context error if ctx ends first; fn may still run later.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.Schedule(func() {
		fn()
		close(done)
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of queued callbacks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Batches returns how many batches have run so far.
func (l *Loop) Batches() uint64 {
	return l.batches.Load()
}

// Run executes queued callbacks until ctx is done and returns the context
// error. Callbacks still queued at that point are dropped. A panicking
// callback ends Run by propagating the panic.
func (l *Loop) Run(ctx context.Context) error {
	var frames <-chan time.Time
	if l.interval > 0 {
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		frames = ticker.C
	}

	l.logger.Debug("loop started", "interval", l.interval)
	defer l.logger.Debug("loop stopped", "batches", l.batches.Load())

	for {
		if frames != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-frames:
			}
		} else {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-l.wake:
			}
		}
		l.drain()
	}
}

func (l *Loop) drain() {
	l.mu.Lock()
	batch := l.queue
	l.queue = nil
	l.mu.Unlock()

	if len(batch) == 0 {
		return
	}
	l.batches.Add(1)
	for _, cb := range batch {
		cb()
	}
}
