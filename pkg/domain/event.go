package domain

// Event is a fact that already happened. Payload must be JSON-marshalable
// so events can cross a message transport.
type Event interface {
	EventName() string
	Payload() any
}
