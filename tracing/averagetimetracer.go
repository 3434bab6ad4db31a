package tracing

import (
	"sync"

	"github.com/sarchlab/washsim/sim"
)

// AverageTimeTracer reports the mean time spent on tasks of a certain kind,
// such as the mean customer wait.
type AverageTimeTracer struct {
	timeTeller sim.TimeTeller
	filter     TaskFilter

	mu        sync.Mutex
	inflight  map[string]Task
	taskCount uint64
	average   float64
}

// NewAverageTimeTracer creates an AverageTimeTracer that measures the tasks
// accepted by the filter.
func NewAverageTimeTracer(
	timeTeller sim.TimeTeller,
	filter TaskFilter,
) *AverageTimeTracer {
	return &AverageTimeTracer{
		timeTeller: timeTeller,
		filter:     filter,
		inflight:   make(map[string]Task),
	}
}

// AverageTime returns the mean duration of the completed tasks.
func (t *AverageTimeTracer) AverageTime() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.average
}

// TotalCount returns how many tasks have completed.
func (t *AverageTimeTracer) TotalCount() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.taskCount
}

// StartTask records when the task begins.
func (t *AverageTimeTracer) StartTask(task Task) {
	task.StartTime = t.timeTeller.CurrentTime()

	if t.filter != nil && !t.filter(task) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.inflight[task.ID] = task
}

// StepTask does nothing.
func (t *AverageTimeTracer) StepTask(Task) {}

// EndTask folds the task's duration into the running mean.
func (t *AverageTimeTracer) EndTask(task Task) {
	now := t.timeTeller.CurrentTime()

	t.mu.Lock()
	defer t.mu.Unlock()

	started, ok := t.inflight[task.ID]
	if !ok {
		return
	}

	duration := float64(now - started.StartTime)
	t.average = (t.average*float64(t.taskCount) + duration) /
		float64(t.taskCount+1)
	t.taskCount++
	delete(t.inflight, task.ID)
}
