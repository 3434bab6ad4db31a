package sim

// VTimeInSec is a point in simulated time, in whole seconds. The simulated
// clock only ever moves in one-second steps.
type VTimeInSec int64

// An Event is something that happens at a point in simulated time.
type Event interface {
	// Time returns when the event happens.
	Time() VTimeInSec

	// Handler returns the handler that the event belongs to.
	Handler() Handler

	// IsSecondary tells if the event is a secondary event. Secondary events
	// trigger after all same-time primary events.
	IsSecondary() bool
}

// EventBase carries the fields shared by all events. Concrete events embed
// it and add their payload.
type EventBase struct {
	ID        string
	time      VTimeInSec
	handler   Handler
	secondary bool
}

// NewEventBase creates an EventBase for the given time and handler.
func NewEventBase(t VTimeInSec, handler Handler) *EventBase {
	return &EventBase{
		ID:      GetIDGenerator().Generate(),
		time:    t,
		handler: handler,
	}
}

// Time returns when the event happens.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns the handler that the event belongs to.
//
// A component only schedules events for itself, so the handler is the
// component that scheduled the event, except for the kick-start event that
// begins a simulation.
func (e EventBase) Handler() Handler {
	return e.handler
}

// IsSecondary tells if the event is a secondary event.
func (e EventBase) IsSecondary() bool {
	return e.secondary
}

// A Handler triggers events. An event can only be scheduled by its own
// handler and can only directly modify that handler.
type Handler interface {
	Handle(e Event) error
}
