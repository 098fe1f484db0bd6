package agent

import (
	"log/slog"
	"sync"
)

// StreamAssistant tags events carrying assistant output deltas.
const StreamAssistant = "assistant"

// Event is one progress notification published during a run.
type Event struct {
	RunID  string
	Stream string
	Data   EventData
}

type EventData struct {
	Delta string
}

// subscriberBuffer bounds how many undelivered events a single subscriber
// may queue. The HTTP renderer drains promptly; overflow indicates a stuck
// writer and the event is dropped with a warning rather than blocking the
// publishing engine.
const subscriberBuffer = 256

// Feed is an in-process broadcast of run events keyed by run ID. Publishing
// never blocks; each subscriber receives events for its run in publication
// order on a buffered channel.
type Feed struct {
	mu   sync.RWMutex
	subs map[string][]chan Event
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[string][]chan Event)}
}

// Publish delivers ev to every subscriber registered for ev.RunID.
// Events published before an engine call returns are guaranteed to be
// buffered on the subscriber channel by the time the call resolves.
func (f *Feed) Publish(ev Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, ch := range f.subs[ev.RunID] {
		select {
		case ch <- ev:
		default:
			slog.Warn("run event dropped: subscriber buffer full",
				"run_id", ev.RunID,
				"stream", ev.Stream,
			)
		}
	}
}

// Subscribe registers interest in a run's events. The returned cancel func
// deregisters the subscriber and closes the channel; it is idempotent and
// must be called on every exit path to avoid leaking the registration.
func (f *Feed) Subscribe(runID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	f.mu.Lock()
	f.subs[runID] = append(f.subs[runID], ch)
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			chans := f.subs[runID]
			for i, c := range chans {
				if c == ch {
					f.subs[runID] = append(chans[:i], chans[i+1:]...)
					break
				}
			}
			if len(f.subs[runID]) == 0 {
				delete(f.subs, runID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// SubscriberCount reports how many subscribers a run currently has.
func (f *Feed) SubscriberCount(runID string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs[runID])
}
