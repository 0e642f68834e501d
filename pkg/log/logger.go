package log

// Logger is the interface applications implement to receive agent
// events. Pass nil or NoopLogger to disable capture.
type Logger interface {
	// Log records an event. Implementations must be thread-safe and
	// should return quickly; blocking stalls the agent's event loop.
	Log(event Event)
}

// NoopLogger discards all events. Safe for concurrent use and usable as
// a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
