package carwash

import "github.com/sarchlab/washsim/sim"

// A WaitTally accumulates the waiting time of customers at the moment they
// enter service.
type WaitTally struct {
	served    int64
	totalWait sim.VTimeInSec
}

// NewWaitTally creates an empty tally.
func NewWaitTally() *WaitTally {
	return &WaitTally{}
}

// Add records that one more customer entered service after waiting for the
// given number of seconds.
func (t *WaitTally) Add(wait sim.VTimeInSec) {
	t.totalWait += wait
	t.served++
}

// Served returns the number of customers that have entered service.
func (t *WaitTally) Served() int64 {
	return t.served
}

// TotalWait returns the summed waiting time of all served customers.
func (t *WaitTally) TotalWait() sim.VTimeInSec {
	return t.totalWait
}

// AverageWait returns the average waiting time of served customers. It
// returns 0 when no customer has been served.
func (t *WaitTally) AverageWait() float64 {
	if t.served == 0 {
		return 0
	}

	return float64(t.totalWait) / float64(t.served)
}
