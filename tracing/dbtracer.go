package tracing

import (
	"sync"

	"github.com/sarchlab/washsim/datarecording"
	"github.com/sarchlab/washsim/sim"
	"github.com/tebeka/atexit"
)

// Location carries Task.Where. SQLite rejects bare column names that
// collide with its keywords, WHERE included.
type traceRow struct {
	ID        string
	ParentID  string
	Kind      string
	What      string
	Location  string
	StartTime int64
	EndTime   int64
}

// DBTracer stores tasks in a database through a datarecording backend. Only
// tasks that complete within the tracing window are recorded.
type DBTracer struct {
	mu         sync.Mutex
	timeTeller sim.TimeTeller
	recorder   datarecording.DataRecorder

	windowStart, windowEnd sim.VTimeInSec

	inflight map[string]Task
}

// NewDBTracer creates a DBTracer that writes into the "trace" table of the
// given recorder.
func NewDBTracer(
	timeTeller sim.TimeTeller,
	dataRecorder datarecording.DataRecorder,
) *DBTracer {
	dataRecorder.CreateTable("trace", traceRow{})

	t := &DBTracer{
		timeTeller:  timeTeller,
		recorder:    dataRecorder,
		windowStart: -1,
		windowEnd:   -1,
		inflight:    make(map[string]Task),
	}

	atexit.Register(t.Terminate)

	return t
}

// SetTimeRange limits recording to the given window. Tasks that end before
// its start or start after its end are dropped.
func (t *DBTracer) SetTimeRange(startTime, endTime sim.VTimeInSec) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.windowStart = startTime
	t.windowEnd = endTime
}

// StartTask keeps the task until its end is known.
func (t *DBTracer) StartTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startingTaskMustBeValid(task)

	task.StartTime = t.timeTeller.CurrentTime()
	if t.windowEnd >= 0 && task.StartTime > t.windowEnd {
		return
	}

	t.inflight[task.ID] = task
}

func (t *DBTracer) startingTaskMustBeValid(task Task) {
	switch {
	case task.ID == "":
		panic("a task needs an ID")
	case task.Kind == "":
		panic("a task needs a kind")
	case task.What == "":
		panic("a task needs a what")
	case task.Where == "":
		panic("a task needs a where")
	}
}

// StepTask does nothing for now.
func (t *DBTracer) StepTask(_ Task) {
	// Do nothing.
}

// EndTask writes the task out, unless the window filters it away.
func (t *DBTracer) EndTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.timeTeller.CurrentTime()

	started, ok := t.inflight[task.ID]
	if !ok {
		return
	}
	delete(t.inflight, task.ID)

	if t.windowStart >= 0 && now < t.windowStart {
		return
	}

	started.EndTime = now
	t.record(started)
}

func (t *DBTracer) record(task Task) {
	t.recorder.InsertData("trace", traceRow{
		ID:        task.ID,
		ParentID:  task.ParentID,
		Kind:      task.Kind,
		What:      task.What,
		Location:  task.Where,
		StartTime: int64(task.StartTime),
		EndTime:   int64(task.EndTime),
	})
}

// Terminate drops the tasks that are still in flight and flushes the
// backend.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.inflight = nil
	t.recorder.Flush()
}
