/*
Package clock holds the process-wide Clock Source used by time-based steps.

The source is a single replaceable function. Steps constructed without an
explicit clock read it at every advance, so replacing it takes effect on the
next advance of every such step. Set is safe to call from any goroutine, but
the intended discipline is a single writer: configure the source once at
startup (or per test) and leave it alone while timelines run.

Manual is a hand-driven clock for simulations and tests.
*/
package clock
