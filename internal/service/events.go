package service

// EventType defines the type of event
type EventType string

const (
	EventScopeStarted EventType = "scope_started"
	EventScopeDone    EventType = "scope_done"
	EventScopeFailed  EventType = "scope_failed"
)

// Event reports progress of a service run over its scopes
type Event struct {
	Type EventType `json:"type"`
	// Task names what is being done, e.g. "Checking address objects"
	Task  string `json:"task"`
	Scope string `json:"scope"`
	// Count is the number of rows produced for the scope
	Count int   `json:"count,omitempty"`
	Err   error `json:"-"`
}

// EventBus delivers events to subscribers synchronously, in subscription order
type EventBus struct {
	subscribers []func(Event)
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]func(Event), 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(fn func(Event)) {
	eb.subscribers = append(eb.subscribers, fn)
}

// Publish sends an event to all subscribers. A nil bus drops events.
func (eb *EventBus) Publish(event Event) {
	if eb == nil {
		return
	}
	for _, fn := range eb.subscribers {
		fn(event)
	}
}
