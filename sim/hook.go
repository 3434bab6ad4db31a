package sim

// A HookPos names a position in the program where hooks can be invoked.
type HookPos struct {
	Name string
}

// HookCtx describes the site where a hook is being invoked.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
	Detail any
}

// A Hookable object accepts hooks.
type Hookable interface {
	// AcceptHook registers a hook.
	AcceptHook(hook Hook)

	// NumHooks returns the number of hooks registered.
	NumHooks() int

	// Hooks returns all the hooks registered.
	Hooks() []Hook
}

// HookPosBeforeEvent marks the moment before an event is handled.
var HookPosBeforeEvent = &HookPos{Name: "Before Event"}

// HookPosAfterEvent marks the moment after an event is handled.
var HookPosAfterEvent = &HookPos{Name: "After Event"}

// A Hook is a piece of program invoked by a hookable object when it reaches
// a hook position.
type Hook interface {
	Func(ctx HookCtx)
}

// HookableBase carries the hooks of a hookable object.
type HookableBase struct {
	hooks []Hook
}

// NewHookableBase creates a HookableBase with no hooks.
func NewHookableBase() *HookableBase {
	return &HookableBase{}
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// Hooks returns all the hooks registered.
func (h *HookableBase) Hooks() []Hook {
	return h.hooks
}

// AcceptHook registers a hook. Registering the same hook twice panics.
func (h *HookableBase) AcceptHook(hook Hook) {
	for _, registered := range h.hooks {
		if registered == hook {
			panic("duplicated hook")
		}
	}

	h.hooks = append(h.hooks, hook)
}

// InvokeHook calls every registered hook with the given context.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
