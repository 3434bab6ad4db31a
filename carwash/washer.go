package carwash

import "github.com/sarchlab/washsim/sim"

// A Washer is the machine that washes one car at a time. It is busy exactly
// while the remaining time is positive.
type Washer struct {
	serviceTime sim.VTimeInSec
	remaining   sim.VTimeInSec
}

// NewWasher creates a washer that takes serviceTime seconds per car.
func NewWasher(serviceTime sim.VTimeInSec) *Washer {
	if serviceTime <= 0 {
		panic("washer service time must be positive")
	}

	return &Washer{serviceTime: serviceTime}
}

// Busy returns true while a car is being washed.
func (w *Washer) Busy() bool {
	return w.remaining > 0
}

// Start begins washing the next car. Starting while busy does nothing.
func (w *Washer) Start() {
	if w.Busy() {
		return
	}

	w.remaining = w.serviceTime
}

// OneSecond tells the washer that another second has passed.
func (w *Washer) OneSecond() {
	if w.remaining > 0 {
		w.remaining--
	}
}

// Remaining returns the seconds left until the current wash finishes.
func (w *Washer) Remaining() sim.VTimeInSec {
	return w.remaining
}
