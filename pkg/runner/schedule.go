package runner

import (
	"time"

	"github.com/aretw0/coroutines/pkg/domain"
)

// DefaultFrameInterval is the frame length used when the host does not
// provide its own frame primitive.
const DefaultFrameInterval = time.Second / 60

// AfterFunc returns a primitive that runs each callback on its own timer
// goroutine d after it was scheduled. Callbacks chained by a driver loop run
// one after another, never concurrently.
func AfterFunc(d time.Duration) domain.ScheduleFunc {
	return func(callback func()) {
		time.AfterFunc(d, callback)
	}
}

// DefaultSchedule runs callbacks at DefaultFrameInterval.
var DefaultSchedule = AfterFunc(DefaultFrameInterval)
