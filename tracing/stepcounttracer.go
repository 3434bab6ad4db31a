package tracing

import (
	"sync"
)

// StepCountTracer counts how many times each named step happens, and in how
// many distinct tasks each step appears.
type StepCountTracer struct {
	filter TaskFilter

	mu         sync.Mutex
	inflight   map[string]Task
	nameOrder  []string
	stepTotals map[string]uint64
	taskTotals map[string]uint64
}

// NewStepCountTracer creates a StepCountTracer that counts the steps of the
// tasks accepted by the filter.
func NewStepCountTracer(filter TaskFilter) *StepCountTracer {
	return &StepCountTracer{
		filter:     filter,
		inflight:   make(map[string]Task),
		stepTotals: make(map[string]uint64),
		taskTotals: make(map[string]uint64),
	}
}

// GetStepNames returns the step names seen so far, in first-seen order.
func (t *StepCountTracer) GetStepNames() []string {
	return t.nameOrder
}

// GetStepCount returns how many times the named step was recorded.
func (t *StepCountTracer) GetStepCount(stepName string) uint64 {
	return t.stepTotals[stepName]
}

// GetTaskCount returns how many tasks recorded the named step at least once.
func (t *StepCountTracer) GetTaskCount(stepName string) uint64 {
	return t.taskTotals[stepName]
}

// StartTask begins tracking the task's steps.
func (t *StepCountTracer) StartTask(task Task) {
	if t.filter != nil && !t.filter(task) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.inflight[task.ID] = task
}

// StepTask counts one step of an in-flight task.
func (t *StepCountTracer) StepTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	step := task.Steps[0]

	if _, seen := t.stepTotals[step.What]; !seen {
		t.nameOrder = append(t.nameOrder, step.What)
	}
	t.stepTotals[step.What]++

	tracked, ok := t.inflight[task.ID]
	if !ok {
		return
	}

	if !hasStepNamed(tracked, step.What) {
		t.taskTotals[step.What]++
	}

	tracked.Steps = append(tracked.Steps, step)
	t.inflight[task.ID] = tracked
}

func hasStepNamed(task Task, what string) bool {
	for _, recorded := range task.Steps {
		if recorded.What == what {
			return true
		}
	}

	return false
}

// EndTask stops tracking the task.
func (t *StepCountTracer) EndTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.inflight, task.ID)
}
