package sim

import (
	"log"
	"reflect"
	"sync"
)

// A SerialEngine triggers events one at a time, in virtual-time order.
type SerialEngine struct {
	HookableBase

	nowMu sync.RWMutex
	now   VTimeInSec

	events    EventQueue
	secondary EventQueue

	runMu   sync.Mutex
	stepMu  sync.Mutex
	pauseMu sync.Mutex
	paused  bool

	endHandlers []SimulationEndHandler
}

// NewSerialEngine creates a SerialEngine with empty event queues.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{
		events:    NewEventQueue(),
		secondary: NewEventQueue(),
	}
}

// Schedule queues an event to trigger at the event's own time, which must not
// lie in the past.
func (e *SerialEngine) Schedule(evt Event) {
	if evt.Time() < e.CurrentTime() {
		log.Panic("cannot schedule an event in the past")
	}

	if evt.IsSecondary() {
		e.secondary.Push(evt)
		return
	}

	e.events.Push(evt)
}

// Run triggers the queued events and returns when none is left. Handlers may
// schedule more events while Run is in progress.
func (e *SerialEngine) Run() error {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	for e.events.Len() > 0 || e.secondary.Len() > 0 {
		e.stepMu.Lock()
		e.triggerNextEvent()
		e.stepMu.Unlock()
	}

	return nil
}

func (e *SerialEngine) triggerNextEvent() {
	evt := e.popNextEvent()

	if evt.Time() < e.CurrentTime() {
		log.Panicf("event %s at %d is earlier than the current time %d",
			reflect.TypeOf(evt), evt.Time(), e.CurrentTime())
	}
	e.advanceTo(evt.Time())

	ctx := HookCtx{Domain: e, Pos: HookPosBeforeEvent, Item: evt}
	e.InvokeHook(ctx)

	_ = evt.Handler().Handle(evt)

	ctx.Pos = HookPosAfterEvent
	e.InvokeHook(ctx)
}

// popNextEvent takes the earliest queued event. Primary events win ties.
func (e *SerialEngine) popNextEvent() Event {
	switch {
	case e.events.Len() == 0:
		return e.secondary.Pop()
	case e.secondary.Len() == 0:
		return e.events.Pop()
	case e.events.Peek().Time() <= e.secondary.Peek().Time():
		return e.events.Pop()
	default:
		return e.secondary.Pop()
	}
}

// Pause stops the engine from triggering events until Continue is called.
// Events can still be scheduled while the engine is paused.
func (e *SerialEngine) Pause() {
	e.pauseMu.Lock()
	defer e.pauseMu.Unlock()

	if e.paused {
		return
	}

	e.stepMu.Lock()
	e.paused = true
}

// Continue lets a paused engine trigger events again.
func (e *SerialEngine) Continue() {
	e.pauseMu.Lock()
	defer e.pauseMu.Unlock()

	if !e.paused {
		return
	}

	e.stepMu.Unlock()
	e.paused = false
}

// CurrentTime returns the time of the event being triggered, or of the last
// one triggered when the engine is idle.
func (e *SerialEngine) CurrentTime() VTimeInSec {
	e.nowMu.RLock()
	defer e.nowMu.RUnlock()

	return e.now
}

func (e *SerialEngine) advanceTo(t VTimeInSec) {
	e.nowMu.Lock()
	e.now = t
	e.nowMu.Unlock()
}

// RegisterSimulationEndHandler adds a handler to run when the simulation
// finishes.
func (e *SerialEngine) RegisterSimulationEndHandler(
	handler SimulationEndHandler,
) {
	e.endHandlers = append(e.endHandlers, handler)
}

// Finished calls the registered SimulationEndHandlers with the final virtual
// time.
func (e *SerialEngine) Finished() {
	for _, h := range e.endHandlers {
		h.Handle(e.CurrentTime())
	}
}
