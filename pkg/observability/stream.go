package observability

import (
	"encoding/json"
	"sync"

	"github.com/aretw0/coroutines/pkg/domain"
)

// Stream fans step lifecycle events out to subscribers as JSON documents.
// Publishing never blocks the tick: a subscriber whose buffer is full misses
// the event. Tick events are not streamed.
type Stream struct {
	mu     sync.Mutex
	subs   map[chan []byte]struct{}
	buffer int
}

// NewStream creates a stream whose subscribers buffer up to buffer events.
func NewStream(buffer int) *Stream {
	if buffer < 1 {
		buffer = 1
	}
	return &Stream{subs: make(map[chan []byte]struct{}), buffer: buffer}
}

// Subscribe registers a new subscriber. Call cancel to unregister it; the
// channel is closed afterwards.
func (s *Stream) Subscribe() (events <-chan []byte, cancel func()) {
	ch := make(chan []byte, s.buffer)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of registered subscribers.
func (s *Stream) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Hooks returns lifecycle hooks that publish into s.
func (s *Stream) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepStart:  s.publishStep,
		OnStepStop:   s.publishStep,
		OnStepFinish: s.publishStep,
	}
}

func (s *Stream) publishStep(e *domain.StepEvent) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- data:
		default:
		}
	}
}
