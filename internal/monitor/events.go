package monitor

// Event represents a monitor lifecycle event.
// Minimal and stable: name + source and optional fields via key/values.
type Event struct {
	Name   string
	Source Source
	Fields map[string]any
}

// Event names emitted by the orchestrator.
const (
	EventRefreshSuccess = "refresh.success"
	EventRefreshFailure = "refresh.failure"
	EventHistoryPurged  = "history.purged"
)

// EventPublisher receives events from the orchestrator. Implementations
// should be lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
