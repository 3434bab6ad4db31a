package carwash

import (
	"errors"
	"fmt"
	"math"

	"github.com/sarchlab/washsim/sim"
)

// Validation errors returned by Config.Validate.
var (
	ErrInvalidServiceTime = errors.New(
		"service time must be a positive integer")
	ErrInvalidProbability = errors.New(
		"arrival probability must be between 0 and 1")
	ErrInvalidHorizon = errors.New(
		"horizon must be non-negative")
)

// A Config carries the parameters of one car wash run.
type Config struct {
	ServiceTime int64
	ArrivalProb float64
	Horizon     int64
}

// Validate checks the parameters and returns an error wrapping one of the
// ErrInvalid sentinels when a parameter is out of range.
func (c Config) Validate() error {
	if c.ServiceTime <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidServiceTime, c.ServiceTime)
	}

	if math.IsNaN(c.ArrivalProb) || c.ArrivalProb < 0 || c.ArrivalProb > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidProbability, c.ArrivalProb)
	}

	if c.Horizon < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidHorizon, c.Horizon)
	}

	return nil
}

// A Builder creates stations.
type Builder struct {
	engine      sim.Engine
	serviceTime int64
	arrivalProb float64
	horizon     int64
	seed        int64
	arrival     ArrivalProcess
}

// MakeBuilder returns a builder with the default parameters. A car takes 150
// seconds to wash, a new car shows up each second with probability 0.5, and
// the simulation covers 6000 seconds.
func MakeBuilder() Builder {
	return Builder{
		serviceTime: 150,
		arrivalProb: 0.5,
		horizon:     6000,
	}
}

// WithEngine sets the engine that drives the station.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithServiceTime sets the number of seconds one wash takes.
func (b Builder) WithServiceTime(seconds int64) Builder {
	b.serviceTime = seconds
	return b
}

// WithArrivalProbability sets the per-second probability that a customer
// arrives.
func (b Builder) WithArrivalProbability(probability float64) Builder {
	b.arrivalProb = probability
	return b
}

// WithHorizon sets the number of seconds to simulate.
func (b Builder) WithHorizon(seconds int64) Builder {
	b.horizon = seconds
	return b
}

// WithSeed sets the seed of the default arrival process.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	return b
}

// WithArrivalProcess replaces the default Bernoulli arrival process. The
// seed is ignored when an arrival process is given.
func (b Builder) WithArrivalProcess(arrival ArrivalProcess) Builder {
	b.arrival = arrival
	return b
}

// Build creates a station with the given name.
func (b Builder) Build(name string) *Station {
	b.parametersMustBeValid()

	s := &Station{
		washer:      NewWasher(sim.VTimeInSec(b.serviceTime)),
		waitingLine: sim.NewUnboundedBuffer(name + ".WaitingLine"),
		tally:       NewWaitTally(),
		arrival:     b.arrival,
		serviceTime: sim.VTimeInSec(b.serviceTime),
		probability: b.arrivalProb,
		horizon:     sim.VTimeInSec(b.horizon),
	}

	if s.arrival == nil {
		s.arrival = NewBernoulliArrival(b.arrivalProb, b.seed)
	}

	s.TickingComponent = sim.NewTickingComponent(name, b.engine, s)

	return s
}

func (b Builder) parametersMustBeValid() {
	if b.engine == nil {
		panic("station must be built with an engine")
	}

	cfg := Config{
		ServiceTime: b.serviceTime,
		ArrivalProb: b.arrivalProb,
		Horizon:     b.horizon,
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
}
