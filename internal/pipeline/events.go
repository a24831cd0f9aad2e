// Package pipeline is the event fan-out backbone behind the progress UI:
// a workflow.ProgressSink publishes an Event for each progress report it
// receives to an EventBus, and any number of subscribers can listen
// without the engine knowing how many consumers exist.
package pipeline

import (
	"sync"
	"time"
)

// EventType classifies a message on the bus.
type EventType string

const (
	EventStepStart       EventType = "step.start"
	EventStepProgress    EventType = "step.progress"
	EventStepSucceeded   EventType = "step.succeeded"
	EventStepFailed      EventType = "step.failed"
	EventStepSkipped     EventType = "step.skipped"
	EventRollbackStart   EventType = "rollback.start"
	EventRollbackStep    EventType = "rollback.step"
	EventRollbackDone    EventType = "rollback.done"
	EventDisposalWarning EventType = "disposal.warning"
)

// Event is a message published to the bus.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Source    string // step's effective name
	Data      any    // typed payload, e.g. workflow.Progress or an error message
}

// EventHandler is called when an event is received.
type EventHandler func(Event)

// EventBus is the central message broker behind the progress UI. Publish
// is synchronous: the engine runs steps sequentially, so there is never
// a concurrent flood of events to buffer, and a synchronous handler
// keeps a TUI's model update in lock-step with the event that triggered
// it.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]EventHandler
	history     []Event
	maxHistory  int
}

// NewEventBus creates a ready-to-use, empty bus.
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[EventType][]EventHandler),
		history:     make([]Event, 0),
		maxHistory:  100,
	}
}

// Subscribe adds a handler for a specific event type.
func (e *EventBus) Subscribe(eventType EventType, handler EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscribers[eventType] = append(e.subscribers[eventType], handler)
}

// SubscribeAll adds a handler that receives every event.
func (e *EventBus) SubscribeAll(handler EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscribers["*"] = append(e.subscribers["*"], handler)
}

// Publish sends an event to all matching subscribers and appends it to
// the bounded history.
func (e *EventBus) Publish(event Event) {
	e.mu.Lock()
	e.history = append(e.history, event)
	if len(e.history) > e.maxHistory {
		e.history = e.history[1:]
	}

	handlers := make([]EventHandler, 0, len(e.subscribers[event.Type])+len(e.subscribers["*"]))
	handlers = append(handlers, e.subscribers[event.Type]...)
	handlers = append(handlers, e.subscribers["*"]...)
	e.mu.Unlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// RecentEvents returns the last n events, oldest first.
func (e *EventBus) RecentEvents(n int) []Event {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if n > len(e.history) {
		n = len(e.history)
	}
	return e.history[len(e.history)-n:]
}

// RecentByType returns the most recent n events of eventType, newest first.
func (e *EventBus) RecentByType(eventType EventType, n int) []Event {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var result []Event
	for i := len(e.history) - 1; i >= 0 && len(result) < n; i-- {
		if e.history[i].Type == eventType {
			result = append(result, e.history[i])
		}
	}
	return result
}
