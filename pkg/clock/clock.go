package clock

import (
	"sync/atomic"
	"time"

	"github.com/aretw0/coroutines/pkg/domain"
)

var (
	epoch   = time.Now()
	current atomic.Pointer[domain.Clock]
)

func init() {
	Reset()
}

// Monotonic reads the seconds elapsed since the package was initialised.
// time.Since uses the monotonic clock reading, so wall clock jumps do not
// affect it.
func Monotonic() float64 {
	return time.Since(epoch).Seconds()
}

// Now reads the current process-wide source.
func Now() float64 {
	return (*current.Load())()
}

// Source returns the current process-wide source.
func Source() domain.Clock {
	return *current.Load()
}

// Set replaces the process-wide source. The last call wins.
// A nil function restores the default.
func Set(f domain.Clock) {
	if f == nil {
		f = Monotonic
	}
	current.Store(&f)
}

// Reset restores the monotonic default.
func Reset() {
	Set(nil)
}

// Or returns c, or the live process-wide reader when c is nil.
// The returned function resolves the source at every call, not once.
func Or(c domain.Clock) domain.Clock {
	if c != nil {
		return c
	}
	return Now
}
