package script

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownKind is returned for a step kind the loader does not know.
	ErrUnknownKind = errors.New("unknown step kind")
	// ErrUnknownVar is returned when a step refers to an undeclared variable.
	ErrUnknownVar = errors.New("unknown variable")
	// ErrUnknownEase is returned for an easing name missing from steps.Eases.
	ErrUnknownEase = errors.New("unknown ease")
	// ErrInvalidOp is returned for an unsupported comparison operator.
	ErrInvalidOp = errors.New("invalid comparison operator")
	// ErrInvalidStep is returned for a step that is not a single-key mapping
	// or whose body has the wrong shape.
	ErrInvalidStep = errors.New("invalid step")
)

// PathError locates a problem inside a script, e.g. "steps[0].sequence[2]".
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// AggregateError carries every problem found in one document.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d script errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err.Error())
	}
	return b.String()
}

// Unwrap lets errors.Is and errors.As look at every collected error.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// Problems returns the collected errors if err is an AggregateError,
// or nil otherwise.
func Problems(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
