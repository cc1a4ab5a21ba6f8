/*
Package steps is the combinator library: constructors for reusable steps.

Every constructor returns a fresh stateful domain.Step. Steps are not
restartable; once a step reports done it must be rebuilt to run again.

# Waiting

  - Wait / WaitFor: until a clock has moved by a number of seconds.
  - WaitFrames: for a fixed number of advances.
  - WaitUntil / WaitWhile: on a predicate re-evaluated at every advance.

# Animation

Animate drives a Target from its current value to a final value over one
second of clock time. The progress variable doubles as the time accumulator:
elapsed seconds are added to it directly and the animation ends once it
reaches 1. Shape the curve with AnimateOptions.Map (see the Ease functions).

# Composition

  - Sequence: run steps one after another.
  - WaitFirst: run steps side by side until any of them finishes (race).
  - WaitLast: run steps side by side until all of them finish (join).

Time-based steps built with a nil clock read the process-wide source from
package clock at every advance.
*/
package steps
