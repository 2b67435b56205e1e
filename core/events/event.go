package events

// Event represents a structured state change emitted by the swap service.
type Event interface {
	EventType() string
}

// Emitter broadcasts events to downstream subscribers (e.g. RPC, indexers).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter is a helper that satisfies the Emitter interface while discarding
// all events. It is useful when a component wants to optionally expose events.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}

// Func adapts a plain function to the Emitter interface so callers can route
// events into a logger or a test capture without a dedicated type.
type Func func(Event)

// Emit implements the Emitter interface.
func (f Func) Emit(evt Event) {
	if f == nil {
		return
	}
	f(evt)
}
