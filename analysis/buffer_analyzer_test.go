package analysis

import (
	. "github.com/onsi/ginkgo/v2"
	gomock "go.uber.org/mock/gomock"

	"github.com/sarchlab/washsim/sim"
)

var _ = Describe("BufferAnalyzer", func() {
	var (
		mockCtrl   *gomock.Controller
		timeTeller *MockTimeTeller
		logger     *MockPerfLogger
		buffer     *MockBuffer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		timeTeller = NewMockTimeTeller(mockCtrl)
		logger = NewMockPerfLogger(mockCtrl)
		buffer = NewMockBuffer(mockCtrl)
		buffer.EXPECT().Name().Return("Buffer").AnyTimes()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("with a sampling period", func() {
		var bufferAnalyzer *BufferAnalyzer

		BeforeEach(func() {
			bufferAnalyzer = MakeBufferAnalyzerBuilder().
				WithPerfLogger(logger).
				WithTimeTeller(timeTeller).
				WithPeriod(10).
				WithBuffer(buffer).
				Build()
		})

		It("should calculate average buffer level", func() {
			timeTeller.EXPECT().
				CurrentTime().
				Return(sim.VTimeInSec(3))
			buffer.EXPECT().Size().Return(1)

			bufferAnalyzer.Func(sim.HookCtx{
				Domain: buffer,
				Pos:    sim.HookPosBufPush,
			})

			timeTeller.EXPECT().
				CurrentTime().
				Return(sim.VTimeInSec(12)).
				AnyTimes()
			buffer.EXPECT().Size().Return(2)
			logger.EXPECT().AddDataEntry(PerfAnalyzerEntry{
				Start:     0,
				End:       10,
				Where:     "Buffer",
				What:      "Level",
				EntryType: "Buffer",
				Value:     0.7,
				Unit:      "",
			})

			bufferAnalyzer.Func(sim.HookCtx{
				Domain: buffer,
				Pos:    sim.HookPosBufPush,
			})
		})

		It("should report multiple periods together", func() {
			timeTeller.EXPECT().
				CurrentTime().
				Return(sim.VTimeInSec(3))
			buffer.EXPECT().Size().Return(1)

			bufferAnalyzer.Func(sim.HookCtx{
				Domain: buffer,
				Pos:    sim.HookPosBufPush,
			})

			timeTeller.EXPECT().
				CurrentTime().
				Return(sim.VTimeInSec(25)).
				AnyTimes()
			buffer.EXPECT().Size().Return(2)
			logger.EXPECT().AddDataEntry(PerfAnalyzerEntry{
				Start:     0,
				End:       10,
				Where:     "Buffer",
				What:      "Level",
				EntryType: "Buffer",
				Value:     0.7,
				Unit:      "",
			})
			logger.EXPECT().AddDataEntry(PerfAnalyzerEntry{
				Start:     10,
				End:       20,
				Where:     "Buffer",
				What:      "Level",
				EntryType: "Buffer",
				Value:     1.0,
				Unit:      "",
			})

			bufferAnalyzer.Func(sim.HookCtx{
				Domain: buffer,
				Pos:    sim.HookPosBufPush,
			})
		})
	})

	Context("without a sampling period", func() {
		var bufferAnalyzer *BufferAnalyzer

		BeforeEach(func() {
			bufferAnalyzer = MakeBufferAnalyzerBuilder().
				WithPerfLogger(logger).
				WithTimeTeller(timeTeller).
				WithBuffer(buffer).
				Build()
		})

		It("should report the whole-run average", func() {
			timeTeller.EXPECT().
				CurrentTime().
				Return(sim.VTimeInSec(0))
			buffer.EXPECT().Size().Return(2)

			bufferAnalyzer.Func(sim.HookCtx{
				Domain: buffer,
				Pos:    sim.HookPosBufPush,
			})

			timeTeller.EXPECT().
				CurrentTime().
				Return(sim.VTimeInSec(10))
			buffer.EXPECT().Size().Return(5)

			bufferAnalyzer.Func(sim.HookCtx{
				Domain: buffer,
				Pos:    sim.HookPosBufPush,
			})

			timeTeller.EXPECT().
				CurrentTime().
				Return(sim.VTimeInSec(15))
			logger.EXPECT().AddDataEntry(PerfAnalyzerEntry{
				Start:     0,
				End:       15,
				Where:     "Buffer",
				What:      "Level",
				EntryType: "Buffer",
				Value:     3.0,
				Unit:      "",
			})

			bufferAnalyzer.report()
		})

		It("should not report when no time has passed", func() {
			timeTeller.EXPECT().
				CurrentTime().
				Return(sim.VTimeInSec(0))

			bufferAnalyzer.report()
		})

		It("should not report an always-empty buffer", func() {
			timeTeller.EXPECT().
				CurrentTime().
				Return(sim.VTimeInSec(5))
			buffer.EXPECT().Size().Return(0)

			bufferAnalyzer.Func(sim.HookCtx{
				Domain: buffer,
				Pos:    sim.HookPosBufPop,
			})

			timeTeller.EXPECT().
				CurrentTime().
				Return(sim.VTimeInSec(10))

			bufferAnalyzer.report()
		})
	})
})
