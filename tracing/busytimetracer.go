package tracing

import (
	"container/list"

	"github.com/sarchlab/washsim/sim"
)

// busySpan is the time span one task occupied the domain.
type busySpan struct {
	start, end sim.VTimeInSec
	done       bool
}

// BusyTimeTracer measures how long a domain spends on tasks of a certain
// kind. Time covered by more than one task is counted once.
type BusyTimeTracer struct {
	timeTeller sim.TimeTeller
	filter     TaskFilter

	inflight map[string]*list.Element
	spans    *list.List
	busyTime sim.VTimeInSec
}

// NewBusyTimeTracer creates a BusyTimeTracer that measures the tasks accepted
// by the filter.
func NewBusyTimeTracer(
	timeTeller sim.TimeTeller,
	filter TaskFilter,
) *BusyTimeTracer {
	return &BusyTimeTracer{
		timeTeller: timeTeller,
		filter:     filter,
		inflight:   make(map[string]*list.Element),
		spans:      list.New(),
	}
}

// BusyTime returns the time spent on completed tasks so far.
func (t *BusyTimeTracer) BusyTime() sim.VTimeInSec {
	return t.busyTime
}

// TerminateAllTasks ends every task still in flight at the given time.
func (t *BusyTimeTracer) TerminateAllTasks(now sim.VTimeInSec) {
	for e := t.spans.Front(); e != nil; e = e.Next() {
		span := e.Value.(*busySpan)
		if !span.done {
			span.end = now
			span.done = true
		}
	}

	t.collapse(now)
}

// StartTask records when the task begins.
func (t *BusyTimeTracer) StartTask(task Task) {
	task.StartTime = t.timeTeller.CurrentTime()

	if t.filter != nil && !t.filter(task) {
		return
	}

	t.inflight[task.ID] = t.spans.PushBack(&busySpan{start: task.StartTime})
}

// StepTask does nothing.
func (t *BusyTimeTracer) StepTask(Task) {}

// EndTask records when the task finishes and folds its span into the busy
// time.
func (t *BusyTimeTracer) EndTask(task Task) {
	now := t.timeTeller.CurrentTime()

	elem, ok := t.inflight[task.ID]
	if !ok {
		return
	}

	span := elem.Value.(*busySpan)
	span.end = now
	span.done = true
	delete(t.inflight, task.ID)

	t.collapse(now)
}

// collapse folds finished spans into busyTime. Spans stay pending while an
// earlier task is still in flight, since that task decides how far the
// overlap reaches.
func (t *BusyTimeTracer) collapse(now sim.VTimeInSec) {
	if start, ok := t.earliestUnfinished(); ok && start < now {
		return
	}

	var done []*busySpan

	var next *list.Element
	for e := t.spans.Front(); e != nil; e = next {
		next = e.Next()

		span := e.Value.(*busySpan)
		if !span.done {
			break
		}

		if span.end <= now {
			done = append(done, span)
			t.spans.Remove(e)
		}
	}

	t.busyTime += unionDuration(done)
}

func (t *BusyTimeTracer) earliestUnfinished() (sim.VTimeInSec, bool) {
	for e := t.spans.Front(); e != nil; e = e.Next() {
		span := e.Value.(*busySpan)
		if !span.done {
			return span.start, true
		}
	}

	return 0, false
}

// unionDuration sums the spans, counting overlap once. Spans must be in
// start order, which holds because tasks start in time order.
func unionDuration(spans []*busySpan) sim.VTimeInSec {
	var total sim.VTimeInSec

	for i := 0; i < len(spans); {
		start, end := spans[i].start, spans[i].end

		j := i + 1
		for ; j < len(spans) && spans[j].start <= end; j++ {
			if spans[j].end > end {
				end = spans[j].end
			}
		}

		total += end - start
		i = j
	}

	return total
}
