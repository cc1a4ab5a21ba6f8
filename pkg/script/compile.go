package script

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/coroutines/pkg/domain"
	"github.com/aretw0/coroutines/pkg/steps"
)

// Starter is anything that can run a step, such as a Timeline or a
// runtime.Scheduler.
type Starter interface {
	Start(step domain.Step) domain.Handle
}

// Program is a compiled script: fresh steps bound to their own variables.
type Program struct {
	Name  string
	Vars  *Vars
	Steps []domain.Step
}

// Compile validates the script and builds its steps. A nil clock reads the
// process-wide source; a nil logger discards log steps.
func (s *Script) Compile(c domain.Clock, logger *slog.Logger) (*Program, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	vars := NewVars(s.Vars)
	b := &builder{
		clock:  c,
		logger: logger.With("script", s.Name),
		vars:   vars,
	}

	prog := &Program{Name: s.Name, Vars: vars}
	for _, n := range s.Steps {
		prog.Steps = append(prog.Steps, b.build(n))
	}
	return prog, nil
}

// Start runs every root step on t and returns their handles.
func (p *Program) Start(t Starter) []domain.Handle {
	handles := make([]domain.Handle, 0, len(p.Steps))
	for _, step := range p.Steps {
		handles = append(handles, t.Start(step))
	}
	return handles
}

// Done returns a step that finishes once every root step has finished.
// It advances the root steps itself, so start either Done or the program,
// not both.
func (p *Program) Done() domain.Step {
	return steps.WaitLast(p.Steps...)
}

type builder struct {
	clock  domain.Clock
	logger *slog.Logger
	vars   *Vars
}

func (b *builder) build(n *Node) domain.Step {
	switch n.Kind {
	case KindWait:
		return steps.Wait(n.Seconds, b.clock)
	case KindFrames:
		return steps.WaitFrames(n.Frames)
	case KindAnimate:
		ease := steps.Linear
		if n.Ease != "" {
			ease = steps.Eases[n.Ease]
		}
		return steps.AnimateWith(b.vars.Target(n.Var), n.To, steps.AnimateOptions[float64]{
			Clock: b.clock,
			Map:   ease,
		})
	case KindSet:
		target, value := b.vars.Target(n.Var), n.Value
		return steps.Call(func() { target.Set(value) })
	case KindLog:
		msg := n.Message
		return steps.Call(func() { b.logger.Info(msg) })
	case KindUntil:
		return steps.WaitUntil(b.compare(n))
	case KindWhile:
		return steps.WaitWhile(b.compare(n))
	case KindSequence:
		return steps.Sequence(b.children(n)...)
	case KindRace:
		return steps.WaitFirst(b.children(n)...)
	case KindAll:
		return steps.WaitLast(b.children(n)...)
	}
	// Validate rejects every other kind.
	panic(fmt.Sprintf("script: unhandled kind %q", n.Kind))
}

func (b *builder) children(n *Node) []domain.Step {
	out := make([]domain.Step, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, b.build(c))
	}
	return out
}

func (b *builder) compare(n *Node) func() bool {
	target, op, value := b.vars.Target(n.Var), ops[n.Op], n.Value
	return func() bool { return op(target.Get(), value) }
}
