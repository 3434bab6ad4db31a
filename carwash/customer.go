// Package carwash models a single-washer car wash. Customers arrive at
// random and wait in an unbounded line for the one washer.
package carwash

import "github.com/sarchlab/washsim/sim"

// A Customer is a car waiting to be washed. All the simulation needs to know
// about a customer is when it joined the line; the ID only serves tracing and
// recording.
type Customer struct {
	ID          string
	ArrivalTime sim.VTimeInSec
}
