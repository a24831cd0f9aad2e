package pipeline

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestEventBus_Subscribe(t *testing.T) {
	bus := NewEventBus()
	received := false

	bus.Subscribe(EventStepStart, func(e Event) {
		received = true
	})

	bus.Publish(Event{
		Type:      EventStepStart,
		Timestamp: time.Now(),
		Source:    "step-a",
	})

	if !received {
		t.Error("handler should have received the event")
	}
}

func TestEventBus_SubscribeAll(t *testing.T) {
	bus := NewEventBus()
	count := 0

	bus.SubscribeAll(func(e Event) {
		count++
	})

	bus.Publish(Event{Type: EventStepStart})
	bus.Publish(Event{Type: EventStepSucceeded})
	bus.Publish(Event{Type: EventStepProgress})

	if count != 3 {
		t.Errorf("expected 3 events, got %d", count)
	}
}

func TestEventBus_Publish_ToCorrectHandlers(t *testing.T) {
	bus := NewEventBus()
	startCount := 0
	succeededCount := 0

	bus.Subscribe(EventStepStart, func(e Event) {
		startCount++
	})
	bus.Subscribe(EventStepSucceeded, func(e Event) {
		succeededCount++
	})

	bus.Publish(Event{Type: EventStepStart})
	bus.Publish(Event{Type: EventStepStart})
	bus.Publish(Event{Type: EventStepSucceeded})

	if startCount != 2 {
		t.Errorf("expected 2 start events, got %d", startCount)
	}
	if succeededCount != 1 {
		t.Errorf("expected 1 succeeded event, got %d", succeededCount)
	}
}

func TestEventBus_PublishMultipleHandlers(t *testing.T) {
	bus := NewEventBus()
	handler1Called := false
	handler2Called := false

	bus.Subscribe(EventStepFailed, func(e Event) {
		handler1Called = true
	})
	bus.Subscribe(EventStepFailed, func(e Event) {
		handler2Called = true
	})

	bus.Publish(Event{Type: EventStepFailed})

	if !handler1Called || !handler2Called {
		t.Error("both handlers should be called")
	}
}

func TestEventBus_RecentEvents(t *testing.T) {
	bus := NewEventBus()

	for i := 0; i < 5; i++ {
		bus.Publish(Event{
			Type:   EventStepProgress,
			Source: string(rune('a' + i)),
		})
	}

	recent := bus.RecentEvents(3)
	if len(recent) != 3 {
		t.Errorf("expected 3 recent events, got %d", len(recent))
	}
	if recent[0].Source != "c" || recent[2].Source != "e" {
		t.Error("should return most recent events in order")
	}
}

func TestEventBus_RecentByType(t *testing.T) {
	bus := NewEventBus()

	bus.Publish(Event{Type: EventStepStart, Source: "1"})
	bus.Publish(Event{Type: EventStepFailed, Source: "2"})
	bus.Publish(Event{Type: EventStepStart, Source: "3"})
	bus.Publish(Event{Type: EventStepSucceeded, Source: "4"})

	results := bus.RecentByType(EventStepStart, 10)
	if len(results) != 2 {
		t.Errorf("expected 2 start events, got %d", len(results))
	}
}

func TestEventBus_HistoryLimit(t *testing.T) {
	bus := NewEventBus()
	bus.maxHistory = 5

	for i := 0; i < 10; i++ {
		bus.Publish(Event{Type: EventStepProgress, Source: string(rune('0' + i))})
	}

	all := bus.RecentEvents(100)
	if len(all) != 5 {
		t.Errorf("expected 5 events (maxHistory), got %d", len(all))
	}
	if all[0].Source != "5" {
		t.Errorf("oldest event should be '5', got '%s'", all[0].Source)
	}
}

func TestEventBus_ConcurrentPublish(t *testing.T) {
	bus := NewEventBus()
	var count int64
	var wg sync.WaitGroup

	bus.SubscribeAll(func(e Event) {
		atomic.AddInt64(&count, 1)
	})

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(Event{Type: EventStepProgress})
		}()
	}
	wg.Wait()

	if count != 100 {
		t.Errorf("expected 100 events handled, got %d", count)
	}
}

func TestEventBus_EventData(t *testing.T) {
	bus := NewEventBus()
	var receivedData any

	bus.Subscribe(EventStepProgress, func(e Event) {
		receivedData = e.Data
	})

	bus.Publish(Event{
		Type: EventStepProgress,
		Data: map[string]int{"percent": 42},
	})

	data, ok := receivedData.(map[string]int)
	if !ok || data["percent"] != 42 {
		t.Error("event data should match what was published")
	}
}

func TestEventBus_Timestamp(t *testing.T) {
	bus := NewEventBus()

	before := time.Now()
	bus.Publish(Event{
		Type:      EventRollbackDone,
		Timestamp: time.Now(),
	})
	after := time.Now()

	recent := bus.RecentEvents(1)
	if len(recent) != 1 {
		t.Fatal("expected 1 event")
	}
	ts := recent[0].Timestamp
	if ts.Before(before) || ts.After(after) {
		t.Error("event timestamp should be preserved")
	}
}
