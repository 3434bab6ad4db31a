package sim

import (
	"log"
	"reflect"
)

// EventLogger is a hook that prints every event as the engine triggers it.
// Hook it onto an engine to follow a simulation event by event.
type EventLogger struct {
	*log.Logger
}

// NewEventLogger creates an EventLogger that writes into the given logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	return &EventLogger{Logger: logger}
}

// Func writes one line per triggered event.
func (l *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	if comp, ok := evt.Handler().(Component); ok {
		l.Printf("%d, %s -> %s",
			evt.Time(), reflect.TypeOf(evt), comp.Name())
		return
	}

	l.Printf("%d, %s", evt.Time(), reflect.TypeOf(evt))
}
