/*
Package domain contains the core types shared by the scheduler, the combinator
library and the host adapters.

It defines what a unit of stepwise work is and how the outside world plugs
into the scheduler (clocks, frame primitives, lifecycle hooks). This package
is kept pure and free of I/O so every other package can depend on it.

# Key Entities

  - Step: a resumable unit of work advanced one bounded step at a time.
  - Handle: the stable identity the scheduler hands out for a started Step.
  - Clock: a function returning elapsed application time in seconds.
  - ScheduleFunc: a host primitive that runs a callback on the next frame.
  - LifecycleHooks: observability callbacks fired by the scheduler.
*/
package domain
