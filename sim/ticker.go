package sim

import (
	"sync"
)

// TickEvent is the event that drives a TickingComponent forward by one
// second.
type TickEvent struct {
	EventBase
}

// MakeTickEvent creates a TickEvent for the handler at the given time.
func MakeTickEvent(handler Handler, time VTimeInSec) TickEvent {
	evt := TickEvent{}
	evt.ID = GetIDGenerator().Generate()
	evt.handler = handler
	evt.time = time

	return evt
}

// A Ticker updates its state once per tick. It reports whether the tick made
// progress; a ticker that made no progress stops receiving ticks until it
// asks for one again.
type Ticker interface {
	Tick() bool
}

// TickScheduler schedules tick events one second apart, matching the
// one-second step of the simulated clock. At most one tick is scheduled per
// second.
type TickScheduler struct {
	lock    sync.Mutex
	handler Handler
	Engine  Engine

	nextTickTime VTimeInSec
}

// NewTickScheduler creates a scheduler that sends tick events to the handler.
func NewTickScheduler(handler Handler, engine Engine) *TickScheduler {
	return &TickScheduler{
		handler: handler,
		Engine:  engine,
		// Negative so that the first tick can land at time 0.
		nextTickTime: -1,
	}
}

// TickNow schedules a tick at the current time.
func (t *TickScheduler) TickNow() {
	t.scheduleTickAt(t.CurrentTime())
}

// TickLater schedules a tick one second from now.
func (t *TickScheduler) TickLater() {
	t.scheduleTickAt(t.CurrentTime() + 1)
}

func (t *TickScheduler) scheduleTickAt(time VTimeInSec) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.nextTickTime >= time {
		return
	}

	t.nextTickTime = time
	t.Engine.Schedule(MakeTickEvent(t.handler, time))
}

// CurrentTime returns the current time of the engine that drives the
// scheduler.
func (t *TickScheduler) CurrentTime() VTimeInSec {
	return t.Engine.CurrentTime()
}

// TickingComponent is a component that updates its state from second to
// second. Implementing the Tick function is all a component needs to do.
type TickingComponent struct {
	*ComponentBase
	*TickScheduler

	ticker Ticker
}

// NewTickingComponent creates a component that advances its state through
// per-second tick events.
func NewTickingComponent(
	name string,
	engine Engine,
	ticker Ticker,
) *TickingComponent {
	tc := &TickingComponent{ticker: ticker}
	tc.TickScheduler = NewTickScheduler(tc, engine)
	tc.ComponentBase = NewComponentBase(name)

	return tc
}

// Handle runs one tick and schedules the next one if the tick made progress.
func (c *TickingComponent) Handle(_ Event) error {
	if c.ticker.Tick() {
		c.TickLater()
	}

	return nil
}
