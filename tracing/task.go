// Package tracing provides a task-based tracing system that records what a
// simulated component is working on over virtual time.
package tracing

import "github.com/sarchlab/washsim/sim"

// A TaskStep is a recorded milestone within a task.
type TaskStep struct {
	Time sim.VTimeInSec `json:"time"`
	What string         `json:"what"`
}

// A Task is a piece of work that a component performs over a time span, such
// as a customer waiting in line or a car being washed.
type Task struct {
	ID         string         `json:"id"`
	ParentID   string         `json:"parent_id"`
	Kind       string         `json:"kind"`
	What       string         `json:"what"`
	Where      string         `json:"where"`
	StartTime  sim.VTimeInSec `json:"start_time"`
	EndTime    sim.VTimeInSec `json:"end_time"`
	Steps      []TaskStep     `json:"steps"`
	Detail     any            `json:"-"`
	ParentTask *Task          `json:"-"`
}

// A TaskFilter decides which tasks a tracer keeps. Tasks for which it returns
// false are ignored.
type TaskFilter func(t Task) bool
