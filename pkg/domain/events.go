package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepStart  EventType = "step_start"
	EventStepStop   EventType = "step_stop"
	EventStepFinish EventType = "step_finish"
	EventTick       EventType = "tick"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Timeline  string    `json:"timeline"`
}

// StepEvent is emitted when a step enters or leaves a scheduler.
type StepEvent struct {
	EventBase
	Handle Handle `json:"handle"`
}

// TickEvent summarises one scheduling pass.
type TickEvent struct {
	EventBase
	Advanced int           `json:"advanced"`
	Finished int           `json:"finished"`
	Live     int           `json:"live"`
	Duration time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for scheduler observability.
// Hooks run synchronously on the goroutine that triggered them, so they must
// be cheap. Any of them may be nil.
type LifecycleHooks struct {
	OnStepStart  func(*StepEvent)
	OnStepStop   func(*StepEvent)
	OnStepFinish func(*StepEvent)
	OnTick       func(*TickEvent)
}

// CombineHooks fans every event out to each of the given hook sets in order.
func CombineHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStepStart: func(e *StepEvent) {
			for _, h := range hooks {
				if h.OnStepStart != nil {
					h.OnStepStart(e)
				}
			}
		},
		OnStepStop: func(e *StepEvent) {
			for _, h := range hooks {
				if h.OnStepStop != nil {
					h.OnStepStop(e)
				}
			}
		},
		OnStepFinish: func(e *StepEvent) {
			for _, h := range hooks {
				if h.OnStepFinish != nil {
					h.OnStepFinish(e)
				}
			}
		},
		OnTick: func(e *TickEvent) {
			for _, h := range hooks {
				if h.OnTick != nil {
					h.OnTick(e)
				}
			}
		},
	}
}
