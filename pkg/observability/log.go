package observability

import (
	"log/slog"

	"github.com/aretw0/coroutines/pkg/domain"
)

// LogHooks writes step lifecycle events at Info and ticks at Debug.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepStart: func(e *domain.StepEvent) {
			logger.Info("step_start", "timeline", e.Timeline, "handle", e.Handle)
		},
		OnStepStop: func(e *domain.StepEvent) {
			logger.Info("step_stop", "timeline", e.Timeline, "handle", e.Handle)
		},
		OnStepFinish: func(e *domain.StepEvent) {
			logger.Info("step_finish", "timeline", e.Timeline, "handle", e.Handle)
		},
		OnTick: func(e *domain.TickEvent) {
			logger.Debug("tick",
				"timeline", e.Timeline,
				"advanced", e.Advanced,
				"finished", e.Finished,
				"live", e.Live,
				"duration", e.Duration,
			)
		},
	}
}
