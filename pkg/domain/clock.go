package domain

// Clock returns the elapsed application time in seconds.
// Successive reads are expected to be non-decreasing, but consumers only
// compare reads and never compensate for stalled or backwards clocks.
type Clock func() float64

// ScheduleFunc asks the host to invoke callback once, later, at the next
// frame or iteration boundary.
type ScheduleFunc func(callback func())
