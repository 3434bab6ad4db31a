package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StepCountTracer", func() {
	var t *StepCountTracer

	BeforeEach(func() {
		t = NewStepCountTracer(nil)
	})

	It("should count steps by name", func() {
		t.StartTask(Task{ID: "1"})
		t.StartTask(Task{ID: "2"})

		t.StepTask(Task{ID: "1", Steps: []TaskStep{{What: "rinse"}}})
		t.StepTask(Task{ID: "1", Steps: []TaskStep{{What: "rinse"}}})
		t.StepTask(Task{ID: "2", Steps: []TaskStep{{What: "rinse"}}})
		t.StepTask(Task{ID: "2", Steps: []TaskStep{{What: "dry"}}})

		t.EndTask(Task{ID: "1"})
		t.EndTask(Task{ID: "2"})

		Expect(t.GetStepNames()).To(Equal([]string{"rinse", "dry"}))
		Expect(t.GetStepCount("rinse")).To(Equal(uint64(3)))
		Expect(t.GetStepCount("dry")).To(Equal(uint64(1)))
	})

	It("should count tasks that contain a step once per task", func() {
		t.StartTask(Task{ID: "1"})

		t.StepTask(Task{ID: "1", Steps: []TaskStep{{What: "rinse"}}})
		t.StepTask(Task{ID: "1", Steps: []TaskStep{{What: "rinse"}}})

		t.EndTask(Task{ID: "1"})

		Expect(t.GetTaskCount("rinse")).To(Equal(uint64(1)))
	})
})
