package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/washsim/sim"
)

// CollectTrace registers the tracer to receive the domain's task hooks. A
// tracer can be registered on a domain only once.
func CollectTrace(domain NamedHookable, tracer Tracer) {
	for _, hook := range domain.Hooks() {
		if th, ok := hook.(*traceHook); ok && th.tracer == tracer {
			panic(fmt.Sprintf("domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(tracer)))
		}
	}

	domain.AcceptHook(&traceHook{tracer: tracer})
}

// traceHook forwards task hooks to a Tracer.
type traceHook struct {
	tracer Tracer
}

func (h *traceHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case HookPosTaskStart:
		h.tracer.StartTask(ctx.Item.(Task))
	case HookPosTaskStep:
		h.tracer.StepTask(ctx.Item.(Task))
	case HookPosTaskEnd:
		h.tracer.EndTask(ctx.Item.(Task))
	}
}
