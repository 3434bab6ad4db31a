package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("TickingComponent", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *MockEngine
		ticker   *MockTicker
		comp     *TickingComponent
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewMockEngine(mockCtrl)
		ticker = NewMockTicker(mockCtrl)
		comp = NewTickingComponent("Washer", engine, ticker)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should schedule the first tick at the current time", func() {
		engine.EXPECT().CurrentTime().Return(VTimeInSec(0)).AnyTimes()
		engine.EXPECT().
			Schedule(gomock.Any()).
			Do(func(e TickEvent) {
				Expect(e.Time()).To(BeEquivalentTo(0))
			})

		comp.TickNow()
	})

	It("should tick again when the ticker makes progress in a tick", func() {
		engine.EXPECT().CurrentTime().Return(VTimeInSec(10)).AnyTimes()
		engine.EXPECT().
			Schedule(gomock.Any()).
			Do(func(e TickEvent) {
				Expect(e.Time()).To(BeEquivalentTo(11))
			})
		ticker.EXPECT().Tick().Return(true)

		comp.Handle(MakeTickEvent(comp, 10))
	})

	It("should skip scheduling when a later tick is already pending", func() {
		engine.EXPECT().CurrentTime().Return(VTimeInSec(10)).AnyTimes()
		engine.EXPECT().
			Schedule(gomock.Any()).
			Do(func(e TickEvent) {
				Expect(e.Time()).To(BeEquivalentTo(11))
			})
		ticker.EXPECT().Tick().Return(true).Times(2)

		comp.Handle(MakeTickEvent(comp, 10))
		comp.Handle(MakeTickEvent(comp, 10))
	})

	It("should go idle when a tick makes no progress", func() {
		engine.EXPECT().CurrentTime().Return(VTimeInSec(10)).AnyTimes()
		ticker.EXPECT().Tick().Return(false)

		comp.Handle(MakeTickEvent(comp, 10))
	})
})
