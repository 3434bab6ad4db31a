package carwash

import (
	"fmt"

	"github.com/sarchlab/washsim/sim"
)

// A Result holds the statistics of one finished run.
type Result struct {
	ServiceTime        sim.VTimeInSec
	ArrivalProbability float64
	Horizon            sim.VTimeInSec
	CustomersServed    int64
	TotalWaitSeconds   sim.VTimeInSec
	AverageWaitSeconds float64
}

// Report renders the result as a one-line summary.
func (r Result) Report() string {
	return fmt.Sprintf(
		"In %d seconds with probability %.3f: "+
			"washed %d cars with average waiting time %.2f seconds.",
		r.Horizon, r.ArrivalProbability,
		r.CustomersServed, r.AverageWaitSeconds)
}
