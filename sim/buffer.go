package sim

import "log"

// HookPosBufPush is invoked after an element enters a buffer.
var HookPosBufPush = &HookPos{Name: "Buffer Push"}

// HookPosBufPop is invoked after an element leaves a buffer.
var HookPosBufPop = &HookPos{Name: "Buffer Pop"}

// A Buffer is a FIFO queue for anything.
type Buffer interface {
	Named
	Hookable

	CanPush() bool
	Push(e any)
	Pop() any
	Peek() any

	// Capacity returns the maximum number of elements the buffer can hold.
	// Unbounded buffers return a negative capacity.
	Capacity() int
	Size() int

	// Clear removes all elements in the buffer.
	Clear()
}

// NewBuffer creates a buffer that holds at most capacity elements.
func NewBuffer(name string, capacity int) Buffer {
	NameMustBeValid(name)

	return &bufferImpl{
		name:     name,
		capacity: capacity,
	}
}

// NewUnboundedBuffer creates a buffer that never rejects a push.
func NewUnboundedBuffer(name string) Buffer {
	NameMustBeValid(name)

	return &bufferImpl{
		name:     name,
		capacity: -1,
	}
}

type bufferImpl struct {
	HookableBase

	name     string
	capacity int
	items    []any
}

func (b *bufferImpl) Name() string {
	return b.name
}

func (b *bufferImpl) unbounded() bool {
	return b.capacity < 0
}

func (b *bufferImpl) CanPush() bool {
	return b.unbounded() || len(b.items) < b.capacity
}

func (b *bufferImpl) Push(e any) {
	if !b.CanPush() {
		log.Panic("cannot push to a full buffer")
	}

	b.items = append(b.items, e)

	if b.NumHooks() > 0 {
		b.InvokeHook(HookCtx{
			Domain: b,
			Pos:    HookPosBufPush,
			Item:   e,
		})
	}
}

func (b *bufferImpl) Pop() any {
	if len(b.items) == 0 {
		return nil
	}

	e := b.items[0]
	b.items = b.items[1:]

	if b.NumHooks() > 0 {
		b.InvokeHook(HookCtx{
			Domain: b,
			Pos:    HookPosBufPop,
			Item:   e,
		})
	}

	return e
}

func (b *bufferImpl) Peek() any {
	if len(b.items) == 0 {
		return nil
	}

	return b.items[0]
}

func (b *bufferImpl) Capacity() int {
	return b.capacity
}

func (b *bufferImpl) Size() int {
	return len(b.items)
}

func (b *bufferImpl) Clear() {
	b.items = nil
}
