package agent

import (
	"testing"
)

func TestFeed_DeliversInOrder(t *testing.T) {
	feed := NewFeed()
	events, cancel := feed.Subscribe("run-1")
	defer cancel()

	deltas := []string{"he", "llo", "llo", " world"}
	for _, d := range deltas {
		feed.Publish(Event{RunID: "run-1", Stream: StreamAssistant, Data: EventData{Delta: d}})
	}

	for i, want := range deltas {
		got := <-events
		if got.Data.Delta != want {
			t.Errorf("event %d: expected delta %q, got %q", i, want, got.Data.Delta)
		}
	}
}

func TestFeed_NoCrossRunLeakage(t *testing.T) {
	feed := NewFeed()
	a, cancelA := feed.Subscribe("run-a")
	defer cancelA()
	b, cancelB := feed.Subscribe("run-b")
	defer cancelB()

	feed.Publish(Event{RunID: "run-a", Stream: StreamAssistant, Data: EventData{Delta: "for-a"}})

	got := <-a
	if got.Data.Delta != "for-a" {
		t.Errorf("expected delta for-a, got %q", got.Data.Delta)
	}

	select {
	case ev := <-b:
		t.Errorf("run-b subscriber received foreign event: %+v", ev)
	default:
	}
}

func TestFeed_PublishBeforeReturnIsBuffered(t *testing.T) {
	// A publish that happens before Publish returns must be readable without
	// waiting: the streaming renderer relies on this to drain queued deltas
	// after the engine call resolves.
	feed := NewFeed()
	events, cancel := feed.Subscribe("run-1")
	defer cancel()

	feed.Publish(Event{RunID: "run-1", Stream: StreamAssistant, Data: EventData{Delta: "x"}})

	select {
	case ev := <-events:
		if ev.Data.Delta != "x" {
			t.Errorf("expected delta x, got %q", ev.Data.Delta)
		}
	default:
		t.Fatal("published event was not buffered synchronously")
	}
}

func TestFeed_CancelIsIdempotent(t *testing.T) {
	feed := NewFeed()
	events, cancel := feed.Subscribe("run-1")

	cancel()
	cancel()

	if _, ok := <-events; ok {
		t.Error("expected closed channel after cancel")
	}
	if n := feed.SubscriberCount("run-1"); n != 0 {
		t.Errorf("expected 0 subscribers after cancel, got %d", n)
	}

	// Publishing after cancel must not panic or deliver.
	feed.Publish(Event{RunID: "run-1", Stream: StreamAssistant, Data: EventData{Delta: "late"}})
}

func TestFeed_MultipleSubscribersSameRun(t *testing.T) {
	feed := NewFeed()
	a, cancelA := feed.Subscribe("run-1")
	defer cancelA()
	b, cancelB := feed.Subscribe("run-1")
	defer cancelB()

	feed.Publish(Event{RunID: "run-1", Stream: StreamAssistant, Data: EventData{Delta: "both"}})

	if got := <-a; got.Data.Delta != "both" {
		t.Errorf("subscriber a: expected delta both, got %q", got.Data.Delta)
	}
	if got := <-b; got.Data.Delta != "both" {
		t.Errorf("subscriber b: expected delta both, got %q", got.Data.Delta)
	}
}

func TestFeed_OverflowDropsInsteadOfBlocking(t *testing.T) {
	feed := NewFeed()
	_, cancel := feed.Subscribe("run-1")
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer+10; i++ {
			feed.Publish(Event{RunID: "run-1", Stream: StreamAssistant, Data: EventData{Delta: "d"}})
		}
	}()

	<-done // publisher must never block on a full subscriber
}

func TestCommandResult_Text(t *testing.T) {
	res := &CommandResult{Payloads: []Payload{{Text: "hel"}, {Text: "lo"}, {Text: ""}}}
	if got := res.Text(); got != "hello" {
		t.Errorf("expected hello, got %q", got)
	}

	empty := &CommandResult{}
	if got := empty.Text(); got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}
