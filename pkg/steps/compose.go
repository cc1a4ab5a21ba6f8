package steps

import "github.com/aretw0/coroutines/pkg/domain"

type sequenceStep struct {
	steps   []domain.Step
	next    int
	current domain.Step
}

// Sequence runs steps one after another. Starting each sub-step costs one
// advance of its own: the sequence yields right after picking a sub-step up,
// then drives it until it finishes, then picks up the next one in the same
// advance. The sequence finishes in the advance its last sub-step finishes.
// An empty sequence finishes on its first advance.
//
// Wrap constructors with domain.Defer to build sub-steps only when they are
// reached.
func Sequence(steps ...domain.Step) domain.Step {
	return &sequenceStep{steps: steps}
}

func (s *sequenceStep) Advance() bool {
	for {
		if s.current == nil {
			if s.next >= len(s.steps) {
				return true
			}
			s.current = s.steps[s.next]
			s.next++
			return false
		}
		if !s.current.Advance() {
			return false
		}
		s.current = nil
	}
}

type parallelStep struct {
	steps []domain.Step
	done  []bool
	left  int
	first bool
}

// WaitFirst drives every step once per advance, in order, and finishes on
// the advance in which any of them finishes. The others are left where they
// stopped. An empty list finishes on the first advance.
func WaitFirst(steps ...domain.Step) domain.Step {
	return newParallel(steps, true)
}

// WaitLast drives every unfinished step once per advance, in order, and
// finishes once all of them have finished. A finished step is never advanced
// again. An empty list finishes on the first advance.
func WaitLast(steps ...domain.Step) domain.Step {
	return newParallel(steps, false)
}

func newParallel(steps []domain.Step, first bool) *parallelStep {
	return &parallelStep{
		steps: steps,
		done:  make([]bool, len(steps)),
		left:  len(steps),
		first: first,
	}
}

func (p *parallelStep) Advance() bool {
	if p.left == 0 {
		return true
	}
	finished := false
	for i, step := range p.steps {
		if p.done[i] {
			continue
		}
		if step.Advance() {
			p.done[i] = true
			p.left--
			finished = true
		}
	}
	if p.first {
		return finished
	}
	return p.left == 0
}
