package sim

import (
	"sync"
)

// A Named object has a name.
type Named interface {
	Name() string
}

// A Component is an element being simulated. It updates itself by handling
// events and exposes its state changes through hooks.
type Component interface {
	Named
	Handler
	Hookable
}

// ComponentBase carries the name and hooks of a component.
type ComponentBase struct {
	HookableBase
	sync.Mutex
	name string
}

// NewComponentBase creates a ComponentBase with the given name.
func NewComponentBase(name string) *ComponentBase {
	NameMustBeValid(name)

	return &ComponentBase{name: name}
}

// Name returns the name of the component.
func (c *ComponentBase) Name() string {
	return c.name
}
