package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aretw0/coroutines/internal/presentation/tui"
	"github.com/aretw0/coroutines/pkg/domain"
	"github.com/aretw0/coroutines/pkg/runner"
	"github.com/aretw0/coroutines/pkg/script"
)

// Result summarises a script run.
type Result struct {
	Name        string
	Frames      int
	Vars        map[string]float64
	Interrupted bool
}

// String renders the result as one line, e.g. "fade: 12 frames opacity=1".
func (r *Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d frames", r.Name, r.Frames)
	if r.Interrupted {
		b.WriteString(" (interrupted)")
	}
	for _, k := range slices.Sorted(maps.Keys(r.Vars)) {
		fmt.Fprintf(&b, " %s=%s", k, strconv.FormatFloat(r.Vars[k], 'g', -1, 64))
	}
	return b.String()
}

// RunScript loads the script at path and drives it until every root step
// finishes or ctx ends. With useTUI the frames are hosted by the terminal UI;
// otherwise a runner.Loop ticks at the configured fps.
func RunScript(ctx context.Context, env *Env, path string, useTUI bool) (*Result, error) {
	sc, err := script.Load(path)
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	src, err := env.clockSource(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.close() }()

	prog, err := sc.Compile(src.clock, env.Logger)
	if err != nil {
		return nil, err
	}

	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()

	res := &Result{Name: sc.Name}
	finished := false
	onFinish := func() {}
	done := domain.LifecycleHooks{
		OnTick: func(e *domain.TickEvent) {
			res.Frames++
			if e.Live == 0 && !finished {
				finished = true
				onFinish()
			}
		},
	}

	tl := env.NewTimeline(sc.Name, src.clock, src.hooks, done)
	prog.Start(tl)
	env.Logger.Info("script started", "script", sc.Name, "steps", len(prog.Steps))

	if useTUI {
		_, err := tea.NewProgram(
			tui.NewModel(tl, prog.Vars, env.Config.FPS),
			tea.WithContext(ctx),
			tea.WithOutput(env.Out),
		).Run()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return nil, err
		}
	} else {
		onFinish = func() {
			tl.SetActive(false)
			stopLoop()
		}
		loop := runner.NewLoop(
			runner.WithInterval(env.FrameInterval()),
			runner.WithLoopLogger(env.Logger),
		)
		loop.Schedule(func() { tl.StartTicking(loop.Schedule) })
		if err := loop.Run(loopCtx); err != nil && loopCtx.Err() == nil {
			return nil, err
		}
	}

	res.Interrupted = !finished
	res.Vars = prog.Vars.Snapshot()
	env.Logger.Info("script stopped", "script", sc.Name, "frames", res.Frames, "finished", finished)
	return res, nil
}
