package tracing

import (
	"github.com/sarchlab/washsim/sim"
)

// NamedHookable is a named domain that tracing hooks can attach to.
type NamedHookable interface {
	sim.Named
	sim.Hookable
	InvokeHook(sim.HookCtx)
}

// Hook positions at which task lifecycle notifications fire.
var (
	HookPosTaskStart = &sim.HookPos{Name: "Task Start"}
	HookPosTaskStep  = &sim.HookPos{Name: "Task Step"}
	HookPosTaskEnd   = &sim.HookPos{Name: "Task End"}
)

// StartTask tells the domain's hooks that a task has started. The task is
// located at the domain itself.
func StartTask(
	id string,
	parentID string,
	domain NamedHookable,
	kind string,
	what string,
	detail any,
) {
	StartTaskWithSpecificLocation(
		id, parentID, domain, kind, what, domain.Name(), detail)
}

// StartTaskWithSpecificLocation is StartTask with the task located somewhere
// other than the domain's own name.
func StartTaskWithSpecificLocation(
	id string,
	parentID string,
	domain NamedHookable,
	kind string,
	what string,
	location string,
	detail any,
) {
	if domain.NumHooks() == 0 {
		return
	}

	startingTaskMustBeComplete(id, domain, kind, what)

	domain.InvokeHook(sim.HookCtx{
		Domain: domain,
		Pos:    HookPosTaskStart,
		Item: Task{
			ID:       id,
			ParentID: parentID,
			Kind:     kind,
			What:     what,
			Where:    location,
			Detail:   detail,
		},
	})
}

func startingTaskMustBeComplete(
	id string,
	domain NamedHookable,
	kind string,
	what string,
) {
	switch {
	case id == "":
		panic("id must not be empty")
	case domain == nil:
		panic("domain must not be nil")
	case kind == "":
		panic("kind must not be empty")
	case what == "":
		panic("what must not be empty")
	case domain.Name() == "":
		panic("domain must have a name")
	}
}

// AddTaskStep records a milestone within a running task.
func AddTaskStep(id string, domain NamedHookable, what string) {
	if domain.NumHooks() == 0 {
		return
	}

	domain.InvokeHook(sim.HookCtx{
		Domain: domain,
		Pos:    HookPosTaskStep,
		Item: Task{
			ID:    id,
			Steps: []TaskStep{{What: what}},
		},
	})
}

// EndTask tells the domain's hooks that a task has finished.
func EndTask(id string, domain NamedHookable) {
	if domain.NumHooks() == 0 {
		return
	}

	domain.InvokeHook(sim.HookCtx{
		Domain: domain,
		Pos:    HookPosTaskEnd,
		Item:   Task{ID: id},
	})
}
