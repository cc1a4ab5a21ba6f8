package script

import (
	"fmt"

	"github.com/aretw0/coroutines/pkg/steps"
)

var ops = map[string]func(a, b float64) bool{
	"<":  func(a, b float64) bool { return a < b },
	"<=": func(a, b float64) bool { return a <= b },
	">":  func(a, b float64) bool { return a > b },
	">=": func(a, b float64) bool { return a >= b },
	"==": func(a, b float64) bool { return a == b },
	"!=": func(a, b float64) bool { return a != b },
}

// Validate checks that every step refers to declared variables, known eases
// and supported operators. Scripts returned by Parse are already valid; call
// it on scripts built by hand.
func (s *Script) Validate() error {
	var errs []error
	for i, n := range s.Steps {
		errs = s.validate(fmt.Sprintf("steps[%d]", i), n, errs)
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func (s *Script) validate(path string, n *Node, errs []error) []error {
	path = path + "." + string(n.Kind)
	fail := func(err error) {
		errs = append(errs, &PathError{Path: path, Err: err})
	}

	switch n.Kind {
	case KindWait, KindFrames, KindLog:
	case KindAnimate, KindSet, KindUntil, KindWhile:
		if _, ok := s.Vars[n.Var]; !ok {
			fail(fmt.Errorf("%w: %q", ErrUnknownVar, n.Var))
		}
		if n.Kind == KindAnimate && n.Ease != "" {
			if _, ok := steps.Eases[n.Ease]; !ok {
				fail(fmt.Errorf("%w: %q", ErrUnknownEase, n.Ease))
			}
		}
		if n.Kind == KindUntil || n.Kind == KindWhile {
			if _, ok := ops[n.Op]; !ok {
				fail(fmt.Errorf("%w: %q", ErrInvalidOp, n.Op))
			}
		}
	case KindSequence, KindRace, KindAll:
		for i, c := range n.Children {
			errs = s.validate(fmt.Sprintf("%s[%d]", path, i), c, errs)
		}
	default:
		fail(fmt.Errorf("%w: %q", ErrUnknownKind, n.Kind))
	}
	return errs
}
