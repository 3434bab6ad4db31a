package carwash

import "math/rand"

// An ArrivalProcess decides, second by second, whether a new customer shows
// up. Implementations must be deterministic for a fixed internal state so
// that runs can be reproduced.
type ArrivalProcess interface {
	Arrive() bool
}

// BernoulliArrival draws one arrival per second with a fixed probability.
type BernoulliArrival struct {
	probability float64
	rand        *rand.Rand
}

// NewBernoulliArrival creates an arrival process that returns true with the
// given probability. The same seed always produces the same draw sequence.
func NewBernoulliArrival(probability float64, seed int64) *BernoulliArrival {
	return &BernoulliArrival{
		probability: probability,
		rand:        rand.New(rand.NewSource(seed)),
	}
}

// Arrive performs one draw.
func (a *BernoulliArrival) Arrive() bool {
	return a.rand.Float64() < a.probability
}

// SequenceArrival replays a fixed sequence of draws. Once the sequence is
// exhausted, no more customers arrive.
type SequenceArrival struct {
	draws []bool
	next  int
}

// NewSequenceArrival creates an arrival process that replays the given
// draws in order.
func NewSequenceArrival(draws ...bool) *SequenceArrival {
	return &SequenceArrival{draws: draws}
}

// Arrive returns the next draw in the sequence.
func (a *SequenceArrival) Arrive() bool {
	if a.next >= len(a.draws) {
		return false
	}

	draw := a.draws[a.next]
	a.next++

	return draw
}
