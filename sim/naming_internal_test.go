package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Naming", func() {
	It("should parse name", func() {
		name := ParseName("Station[0].WaitingLine")
		Expect(name.Tokens[0].ElemName).To(Equal("Station"))
		Expect(name.Tokens[0].Index).To(Equal([]int{0}))
		Expect(name.Tokens[1].ElemName).To(Equal("WaitingLine"))
		Expect(name.Tokens[1].Index).To(BeEmpty())
	})

	It("should panic if the name is empty", func() {
		Expect(func() { NameMustBeValid("") }).To(Panic())
	})

	It("should panic if name include underscore", func() {
		Expect(func() { NameMustBeValid("Station_0") }).To(Panic())
	})

	It("should panic if name include dash", func() {
		Expect(func() { NameMustBeValid("Station-0") }).To(Panic())
	})

	It("should panic if name is not capitalized CamelCase", func() {
		Expect(func() { NameMustBeValid("station0") }).To(Panic())
	})

	It("should have paired square brackets", func() {
		Expect(func() { NameMustBeValid("Station[0") }).To(Panic())
		Expect(func() { NameMustBeValid("Station0]") }).To(Panic())
	})

	It("should panic if element name is empty", func() {
		Expect(func() { NameMustBeValid("Station..Washer") }).To(Panic())
	})

	It("should build name", func() {
		Expect(BuildName("", "Station")).To(Equal("Station"))
		Expect(BuildName("Station", "Washer")).To(Equal("Station.Washer"))
	})

	It("should build name with index", func() {
		Expect(BuildNameWithIndex("", "Rep", 0)).To(Equal("Rep[0]"))
		Expect(BuildNameWithIndex("Rep", "Station", 3)).
			To(Equal("Rep.Station[3]"))
	})
})

var _ = Describe("HookableBase", func() {
	It("should register hooks and invoke them in order", func() {
		hookable := NewHookableBase()
		h1 := &bufferHookRecorder{}
		h2 := &bufferHookRecorder{}

		hookable.AcceptHook(h1)
		hookable.AcceptHook(h2)
		Expect(hookable.NumHooks()).To(Equal(2))

		hookable.InvokeHook(HookCtx{Pos: HookPosBufPush, Item: 42})

		Expect(h1.pushed).To(Equal([]any{42}))
		Expect(h2.pushed).To(Equal([]any{42}))
	})

	It("should panic on duplicated hooks", func() {
		hookable := NewHookableBase()
		h := &bufferHookRecorder{}

		hookable.AcceptHook(h)

		Expect(func() { hookable.AcceptHook(h) }).To(Panic())
	})
})
