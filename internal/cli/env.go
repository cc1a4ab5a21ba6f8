package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/term"

	"github.com/aretw0/coroutines"
	"github.com/aretw0/coroutines/internal/config"
	"github.com/aretw0/coroutines/internal/logging"
	redisclock "github.com/aretw0/coroutines/pkg/adapters/redis"
	"github.com/aretw0/coroutines/pkg/clock"
	"github.com/aretw0/coroutines/pkg/domain"
	"github.com/aretw0/coroutines/pkg/observability"
)

// Env bundles what every command shares: configuration, the logger and the
// metrics registry.
type Env struct {
	Config   config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
	Out      io.Writer
}

// NewEnv builds the logger and metrics described by cfg. Command output goes
// to out.
func NewEnv(cfg config.Config, out io.Writer) (*Env, error) {
	logger, err := logging.FromConfig(cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := observability.NewMetrics(reg, "coroutines")
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	return &Env{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Metrics:  metrics,
		Out:      out,
	}, nil
}

// FrameInterval is the frame length implied by the configured fps.
func (e *Env) FrameInterval() time.Duration {
	return time.Duration(float64(time.Second) / e.Config.FPS)
}

// NewTimeline creates a timeline reporting into the shared metrics and
// logger, plus any extra hooks.
func (e *Env) NewTimeline(name string, c domain.Clock, extra ...domain.LifecycleHooks) *coroutines.Timeline {
	hooks := append([]domain.LifecycleHooks{
		e.Metrics.Hooks(),
		observability.LogHooks(e.Logger),
	}, extra...)

	opts := []coroutines.Option{
		coroutines.WithName(name),
		coroutines.WithLogger(e.Logger),
		coroutines.WithLifecycleHooks(domain.CombineHooks(hooks...)),
	}
	if c != nil {
		opts = append(opts, coroutines.WithClock(c))
	}
	return coroutines.New(opts...)
}

// clockSource is the clock picked by configuration. Hooks keep it in step
// with the timeline; close releases its resources.
type clockSource struct {
	clock domain.Clock
	hooks domain.LifecycleHooks
	close func() error
}

// clockSource builds the configured clock. The monotonic source returns a
// nil clock so steps read the process-wide default. The fixed source moves
// by clock.step after every tick. The redis source is probed once so that a
// bad address fails early.
func (e *Env) clockSource(ctx context.Context) (*clockSource, error) {
	src := &clockSource{close: func() error { return nil }}

	switch e.Config.Clock.Source {
	case config.ClockMonotonic:

	case config.ClockFixed:
		m := clock.NewManual(0)
		step := e.Config.Clock.Step
		src.clock = m.Clock()
		src.hooks = domain.LifecycleHooks{
			OnTick: func(*domain.TickEvent) { m.Advance(step) },
		}

	case config.ClockRedis:
		rc := redisclock.NewClock(
			e.Config.Redis.Addr,
			e.Config.Redis.Password,
			e.Config.Redis.DB,
			redisclock.WithLogger(e.Logger),
		)
		if _, err := rc.Read(ctx); err != nil {
			_ = rc.Close()
			return nil, err
		}
		src.clock = rc.Source()
		src.close = rc.Close

	default:
		return nil, fmt.Errorf("unknown clock source %q", e.Config.Clock.Source)
	}
	return src, nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
