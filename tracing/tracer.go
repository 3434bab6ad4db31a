package tracing

// A Tracer receives task lifecycle callbacks and records them.
type Tracer interface {
	StartTask(task Task)
	StepTask(task Task)
	EndTask(task Task)
}
