package steps

import (
	"github.com/aretw0/coroutines/pkg/clock"
	"github.com/aretw0/coroutines/pkg/domain"
)

// AnimateOptions configures an animation. Every field is optional and
// defaults independently.
type AnimateOptions[T any] struct {
	// Clock measures elapsed time. Defaults to the process-wide source.
	Clock domain.Clock
	// Map shapes progress. Defaults to Linear.
	Map func(float64) float64
	// Interpolate computes the value for shaped progress t between a and b.
	// Defaults to Lerp.
	Interpolate func(a, b T, t float64) T
}

// Lerp is linear interpolation: b*t + a*(1-t).
func Lerp[T Number](a, b T, t float64) T {
	return T(float64(b)*t + float64(a)*(1-t))
}

type animateStep[T any] struct {
	target  Target[T]
	to      T
	opts    AnimateOptions[T]
	started bool
	from    T
	t       float64
	last    float64
}

// Animate moves target linearly to the value to over one second of clock
// time, starting from whatever value target holds at the first advance.
func Animate[T Number](target Target[T], to T) domain.Step {
	return AnimateWith(target, to, AnimateOptions[T]{})
}

// AnimateWith is Animate with explicit options.
//
// The progress t starts at 0 and accumulates elapsed seconds directly, so t
// is both time and normalised progress and every animation lasts one second
// of clock time. To make it faster or slower, hand it a scaled Clock. Each
// advance writes Interpolate(from, to, Map(min(t, 1))) to the target and the
// step finishes on the first advance where t >= 1, leaving the target at
// exactly Interpolate(from, to, Map(1)).
func AnimateWith[T Number](target Target[T], to T, opts AnimateOptions[T]) domain.Step {
	if opts.Map == nil {
		opts.Map = Linear
	}
	if opts.Interpolate == nil {
		opts.Interpolate = Lerp[T]
	}
	opts.Clock = clock.Or(opts.Clock)
	return &animateStep[T]{target: target, to: to, opts: opts}
}

// AnimateField animates the numeric field called name on the struct obj
// points to.
func AnimateField(obj any, name string, to float64, opts AnimateOptions[float64]) (domain.Step, error) {
	target, err := Field(obj, name)
	if err != nil {
		return nil, err
	}
	return AnimateWith(target, to, opts), nil
}

func (a *animateStep[T]) Advance() bool {
	now := a.opts.Clock()
	if !a.started {
		a.started = true
		a.from = a.target.Get()
		a.last = now
	}
	a.t += now - a.last
	a.last = now

	progress := a.t
	if progress > 1 {
		progress = 1
	}
	a.target.Set(a.opts.Interpolate(a.from, a.to, a.opts.Map(progress)))
	return a.t >= 1
}
