package monitoring

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/washsim/sim"
)

type stubComponent struct {
	*sim.ComponentBase

	buffer sim.Buffer
}

func (c *stubComponent) Handle(_ sim.Event) error {
	return nil
}

func newStubComponent() *stubComponent {
	return &stubComponent{
		ComponentBase: sim.NewComponentBase("Washer"),
		buffer:        sim.NewBuffer("Washer.Line", 10),
	}
}

var _ = Describe("Monitor", func() {
	var (
		m *Monitor
	)

	BeforeEach(func() {
		m = &Monitor{}
	})

	It("should pick up a component and its buffers", func() {
		c := newStubComponent()
		m.RegisterComponent(c)

		Expect(m.components).To(HaveLen(1))
		Expect(m.buffers).To(HaveLen(1))
	})

	It("should clamp the buffer listing to the registered buffers", func() {
		c := newStubComponent()
		m.RegisterComponent(c)

		buffers := m.sortAndSelectBuffers("percent", 10, 0)

		Expect(buffers).To(HaveLen(1))
	})

	It("should sort unbounded buffers by level", func() {
		m.buffers = []sim.Buffer{
			sim.NewUnboundedBuffer("LineA"),
			sim.NewUnboundedBuffer("LineB"),
		}
		m.buffers[1].Push(1)

		buffers := m.sortAndSelectBuffers("level", 2, 0)

		Expect(buffers[0].Name()).To(Equal("LineB"))
		Expect(buffers[1].Name()).To(Equal("LineA"))
	})

	It("should fill bars created for the dashboard", func() {
		bar := m.CreateProgressBar("replications", 4)
		bar.IncrementFinished(3)

		Expect(m.progressBars).To(HaveLen(1))
		Expect(bar.Finished).To(Equal(uint64(3)))

		m.CompleteProgressBar(bar)

		Expect(m.progressBars).To(BeEmpty())
	})
})
