package carwash

import (
	"github.com/sarchlab/washsim/sim"
	"github.com/sarchlab/washsim/tracing"
)

// A Station simulates the car wash second by second. Each tick admits at
// most one arriving customer, advances the washer, and, when the washer is
// free, dispatches the customer at the front of the line.
type Station struct {
	*sim.TickingComponent

	washer      *Washer
	waitingLine sim.Buffer
	tally       *WaitTally
	arrival     ArrivalProcess

	serviceTime sim.VTimeInSec
	probability float64
	horizon     sim.VTimeInSec

	washTaskID string
}

// Tick processes one simulated second. It reports whether another second
// remains before the horizon.
func (s *Station) Tick() bool {
	now := s.CurrentTime()

	s.admitArrival(now)
	s.progressWash()
	s.dispatch(now)

	return now+1 < s.horizon
}

func (s *Station) admitArrival(now sim.VTimeInSec) {
	if !s.arrival.Arrive() {
		return
	}

	customer := Customer{
		ID:          sim.GetIDGenerator().Generate(),
		ArrivalTime: now,
	}
	s.waitingLine.Push(customer)

	tracing.StartTask(customer.ID+".wait", "", s,
		"wait", "Customer", customer)
}

func (s *Station) progressWash() {
	if !s.washer.Busy() {
		return
	}

	s.washer.OneSecond()
	if s.washer.Busy() {
		return
	}

	tracing.EndTask(s.washTaskID, s)
	s.washTaskID = ""
}

func (s *Station) dispatch(now sim.VTimeInSec) {
	if s.washer.Busy() {
		return
	}

	item := s.waitingLine.Pop()
	if item == nil {
		return
	}

	customer := item.(Customer)

	s.tally.Add(now - customer.ArrivalTime)
	s.washer.Start()

	tracing.EndTask(customer.ID+".wait", s)

	s.washTaskID = customer.ID + ".wash"
	tracing.StartTask(s.washTaskID, customer.ID+".wait", s,
		"wash", "Customer", customer)
}

// Run drives the station from time zero to the horizon and returns the final
// result. The engine the station was built with must not have run yet.
func (s *Station) Run() (Result, error) {
	if s.horizon > 0 {
		s.TickNow()
	}

	err := s.Engine.Run()
	if err != nil {
		return Result{}, err
	}

	return s.Result(), nil
}

// Result summarizes the statistics collected so far.
func (s *Station) Result() Result {
	return Result{
		ServiceTime:        s.serviceTime,
		ArrivalProbability: s.probability,
		Horizon:            s.horizon,
		CustomersServed:    s.tally.Served(),
		TotalWaitSeconds:   s.tally.TotalWait(),
		AverageWaitSeconds: s.tally.AverageWait(),
	}
}

// WaitingLine returns the buffer that holds the customers that have arrived
// but not yet entered service.
func (s *Station) WaitingLine() sim.Buffer {
	return s.waitingLine
}

// Washer returns the station's washer.
func (s *Station) Washer() *Washer {
	return s.washer
}
