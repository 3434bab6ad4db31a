package tracing

import (
	"sync"

	"github.com/sarchlab/washsim/sim"
)

// TotalTimeTracer sums the time spent on tasks of a certain kind. Time
// covered by more than one task is counted once per task.
type TotalTimeTracer struct {
	timeTeller sim.TimeTeller
	filter     TaskFilter

	mu        sync.Mutex
	totalTime sim.VTimeInSec
	inflight  map[string]Task
}

// NewTotalTimeTracer creates a TotalTimeTracer that measures the tasks
// accepted by the filter.
func NewTotalTimeTracer(
	timeTeller sim.TimeTeller,
	filter TaskFilter,
) *TotalTimeTracer {
	return &TotalTimeTracer{
		timeTeller: timeTeller,
		filter:     filter,
		inflight:   make(map[string]Task),
	}
}

// TotalTime returns the summed task time so far.
func (t *TotalTimeTracer) TotalTime() sim.VTimeInSec {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.totalTime
}

// StartTask records when the task begins.
func (t *TotalTimeTracer) StartTask(task Task) {
	task.StartTime = t.timeTeller.CurrentTime()

	if t.filter != nil && !t.filter(task) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.inflight[task.ID] = task
}

// StepTask does nothing.
func (t *TotalTimeTracer) StepTask(Task) {}

// EndTask adds the task's duration to the total.
func (t *TotalTimeTracer) EndTask(task Task) {
	now := t.timeTeller.CurrentTime()

	t.mu.Lock()
	defer t.mu.Unlock()

	started, ok := t.inflight[task.ID]
	if !ok {
		return
	}

	t.totalTime += now - started.StartTime
	delete(t.inflight, task.ID)
}
