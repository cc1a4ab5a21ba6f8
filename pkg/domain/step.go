package domain

// Step is a unit of suspendable work.
//
// Advance resumes the work until its next suspension point and reports
// whether it has finished. Each call must perform bounded, non-blocking work.
// Consumers never call Advance again once it returned true, so
// implementations do not need to handle that case.
type Step interface {
	Advance() (done bool)
}

// StepFunc adapts an ordinary function to the Step interface.
type StepFunc func() bool

// Advance calls f.
func (f StepFunc) Advance() bool {
	return f()
}

// Constructor is the zero-argument form of a Step: calling it yields a fresh,
// unstarted Step.
type Constructor func() Step

// Defer wraps a Constructor into a Step that builds its inner Step on the
// first Advance and then delegates to it. It lets constructors be placed
// wherever a Step is expected, e.g. inside combinators.
func Defer(ctor Constructor) Step {
	return &deferred{ctor: ctor}
}

type deferred struct {
	ctor  Constructor
	inner Step
}

func (d *deferred) Advance() bool {
	if d.inner == nil {
		d.inner = d.ctor()
		if d.inner == nil {
			return true
		}
	}
	return d.inner.Advance()
}

// Handle identifies a Step registered with a scheduler.
// The zero Handle is never issued and stopping it is a no-op.
type Handle uint64

// Valid reports whether h was issued by a scheduler.
func (h Handle) Valid() bool {
	return h != 0
}
