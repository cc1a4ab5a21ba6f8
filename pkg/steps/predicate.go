package steps

import "github.com/aretw0/coroutines/pkg/domain"

// WaitUntil finishes on the first advance where pred returns true.
// pred is called exactly once per advance.
func WaitUntil(pred func() bool) domain.Step {
	return domain.StepFunc(pred)
}

// WaitWhile finishes on the first advance where pred returns false.
// pred is called exactly once per advance.
func WaitWhile(pred func() bool) domain.Step {
	return domain.StepFunc(func() bool {
		return !pred()
	})
}

// Call returns a step that runs fn on its first advance and finishes.
func Call(fn func()) domain.Step {
	return domain.StepFunc(func() bool {
		fn()
		return true
	})
}
