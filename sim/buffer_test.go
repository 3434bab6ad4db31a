package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type bufferHookRecorder struct {
	pushed []any
	popped []any
}

func (h *bufferHookRecorder) Func(ctx HookCtx) {
	switch ctx.Pos {
	case HookPosBufPush:
		h.pushed = append(h.pushed, ctx.Item)
	case HookPosBufPop:
		h.popped = append(h.popped, ctx.Item)
	}
}

var _ = Describe("Buffer", func() {
	var buf Buffer

	BeforeEach(func() {
		buf = NewBuffer("Line", 2)
	})

	It("should fill up to its capacity", func() {
		Expect(buf.Capacity()).To(Equal(2))
		Expect(buf.CanPush()).To(BeTrue())

		buf.Push(1)
		Expect(buf.CanPush()).To(BeTrue())

		buf.Push(2)
		Expect(buf.CanPush()).To(BeFalse())
		Expect(buf.Size()).To(Equal(2))

		Expect(func() { buf.Push(3) }).To(Panic())
	})

	It("should pop in arrival order", func() {
		buf.Push(1)
		buf.Push(2)

		Expect(buf.Peek()).To(Equal(1))
		Expect(buf.Pop()).To(Equal(1))
		Expect(buf.Size()).To(Equal(1))

		Expect(buf.Pop()).To(Equal(2))
		Expect(buf.Size()).To(Equal(0))

		Expect(buf.Peek()).To(BeNil())
		Expect(buf.Pop()).To(BeNil())
	})

	It("should drop everything on clear", func() {
		buf.Push(2)
		Expect(buf.Size()).To(Equal(1))

		buf.Clear()

		Expect(buf.Size()).To(Equal(0))
		Expect(buf.Peek()).To(BeNil())
	})

	It("should invoke hooks on push and pop", func() {
		recorder := &bufferHookRecorder{}
		buf.AcceptHook(recorder)

		buf.Push(1)
		buf.Push(2)
		buf.Pop()

		Expect(recorder.pushed).To(Equal([]any{1, 2}))
		Expect(recorder.popped).To(Equal([]any{1}))
	})
})

var _ = Describe("Unbounded BufferImpl", func() {
	var buf Buffer

	BeforeEach(func() {
		buf = NewUnboundedBuffer("Buf")
	})

	It("should never reject a push", func() {
		Expect(buf.Capacity()).To(BeNumerically("<", 0))

		for i := range 1000 {
			Expect(buf.CanPush()).To(BeTrue())
			buf.Push(i)
		}

		Expect(buf.Size()).To(Equal(1000))
	})

	It("should keep fifo order", func() {
		buf.Push(1)
		buf.Push(2)
		buf.Push(3)

		Expect(buf.Pop()).To(Equal(1))
		Expect(buf.Pop()).To(Equal(2))
		Expect(buf.Pop()).To(Equal(3))
	})
})
