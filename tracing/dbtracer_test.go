package tracing

import (
	"database/sql"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sarchlab/washsim/datarecording"
	"github.com/sarchlab/washsim/sim"
)

type testTimeTeller struct {
	currentTime sim.VTimeInSec
}

func (t *testTimeTeller) CurrentTime() sim.VTimeInSec {
	return t.currentTime
}

var _ = Describe("DBTracer", func() {
	var (
		timeTeller *testTimeTeller
		db         *sql.DB
		recorder   datarecording.DataRecorder
		tracer     *DBTracer
	)

	BeforeEach(func() {
		timeTeller = &testTimeTeller{}

		var err error
		db, err = sql.Open("sqlite3", ":memory:")
		Expect(err).ToNot(HaveOccurred())

		recorder = datarecording.NewWithDB(db)
		tracer = NewDBTracer(timeTeller, recorder)
	})

	AfterEach(func() {
		db.Close()
	})

	countTraceRows := func() int {
		recorder.Flush()

		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM trace;").Scan(&count)
		Expect(err).ToNot(HaveOccurred())

		return count
	}

	It("should record a completed task", func() {
		timeTeller.currentTime = 10
		tracer.StartTask(Task{
			ID:    "1",
			Kind:  "wash",
			What:  "wash",
			Where: "Station",
		})

		timeTeller.currentTime = 25
		tracer.EndTask(Task{ID: "1"})

		Expect(countTraceRows()).To(Equal(1))

		var start, end int64
		err := db.QueryRow(
			"SELECT StartTime, EndTime FROM trace WHERE ID='1';",
		).Scan(&start, &end)
		Expect(err).ToNot(HaveOccurred())
		Expect(start).To(Equal(int64(10)))
		Expect(end).To(Equal(int64(25)))
	})

	It("should not record unfinished tasks", func() {
		timeTeller.currentTime = 10
		tracer.StartTask(Task{
			ID:    "1",
			Kind:  "wait",
			What:  "wait",
			Where: "Station",
		})

		tracer.Terminate()

		Expect(countTraceRows()).To(Equal(0))
	})

	It("should drop tasks that end before the time range", func() {
		tracer.SetTimeRange(100, 200)

		timeTeller.currentTime = 10
		tracer.StartTask(Task{
			ID:    "1",
			Kind:  "wash",
			What:  "wash",
			Where: "Station",
		})

		timeTeller.currentTime = 50
		tracer.EndTask(Task{ID: "1"})

		Expect(countTraceRows()).To(Equal(0))
	})

	It("should drop tasks that start after the time range", func() {
		tracer.SetTimeRange(0, 20)

		timeTeller.currentTime = 30
		tracer.StartTask(Task{
			ID:    "1",
			Kind:  "wash",
			What:  "wash",
			Where: "Station",
		})

		timeTeller.currentTime = 40
		tracer.EndTask(Task{ID: "1"})

		Expect(countTraceRows()).To(Equal(0))
	})

	It("should panic if the starting task misses required fields", func() {
		Expect(func() {
			tracer.StartTask(Task{ID: "1", Kind: "wash", What: "wash"})
		}).To(Panic())
	})
})
