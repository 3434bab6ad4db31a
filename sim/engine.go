package sim

// A TimeTeller reports the current simulated time.
type TimeTeller interface {
	CurrentTime() VTimeInSec
}

// An EventScheduler queues events to trigger in the future.
type EventScheduler interface {
	Schedule(e Event)
}

// A SimulationEndHandler runs after the simulation ends.
type SimulationEndHandler interface {
	Handle(now VTimeInSec)
}

// An Engine drives a discrete event simulation forward.
type Engine interface {
	Hookable
	TimeTeller
	EventScheduler

	// Run triggers the queued events until none is left.
	Run() error

	// Pause stops the engine from triggering events until Continue is
	// called.
	Pause()

	// Continue resumes a paused engine.
	Continue()

	// RegisterSimulationEndHandler adds a handler to run when the
	// simulation finishes.
	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished calls the registered SimulationEndHandlers.
	Finished()
}
