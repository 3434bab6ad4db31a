package experiment

import (
	"fmt"

	"github.com/sarchlab/washsim/analysis"
	"github.com/sarchlab/washsim/carwash"
	"github.com/sarchlab/washsim/datarecording"
	"github.com/sarchlab/washsim/monitoring"
	"github.com/sarchlab/washsim/sim"
)

const resultTableName = "replications"

// A repEntry is one replication's outcome as stored in the result table.
type repEntry struct {
	Replication int
	Seed        int64
	Served      int64
	TotalWait   int64
	AverageWait float64
}

// A Summary aggregates the results of all the replications of an experiment.
type Summary struct {
	Name         string
	Replications int

	MeanServed float64
	MinServed  int64
	MaxServed  int64

	MeanAverageWait float64
}

// Report renders the summary as a one-line conclusion.
func (s Summary) Report() string {
	return fmt.Sprintf(
		"Experiment %s: %d replications, "+
			"washed %.2f cars on average (min %d, max %d), "+
			"mean average waiting time %.2f seconds.",
		s.Name, s.Replications,
		s.MeanServed, s.MinServed, s.MaxServed,
		s.MeanAverageWait)
}

// A Runner executes the replications of an experiment one after another. Each
// replication runs on its own engine with its own arrival sequence, seeded
// with the base seed plus the replication index.
type Runner struct {
	config       Config
	recorder     datarecording.DataRecorder
	monitor      *monitoring.Monitor
	perfAnalyzer *analysis.PerfAnalyzer

	results []carwash.Result
}

// NewRunner creates a Runner for the given experiment.
func NewRunner(config Config) *Runner {
	return &Runner{config: config}
}

// WithDataRecorder lets the runner insert one row per replication into the
// "replications" table of the given recorder.
func (r *Runner) WithDataRecorder(
	recorder datarecording.DataRecorder,
) *Runner {
	r.recorder = recorder
	return r
}

// WithMonitor lets the runner report its progress through a progress bar
// served by the given monitor.
func (r *Runner) WithMonitor(monitor *monitoring.Monitor) *Runner {
	r.monitor = monitor
	return r
}

// WithPerfAnalyzer registers every replication's station with the given
// analyzer, so that waiting line levels are sampled across the batch.
func (r *Runner) WithPerfAnalyzer(perfAnalyzer *analysis.PerfAnalyzer) *Runner {
	r.perfAnalyzer = perfAnalyzer
	return r
}

// Run executes all the replications and returns the aggregated summary.
func (r *Runner) Run() (Summary, error) {
	if err := r.config.Validate(); err != nil {
		return Summary{}, err
	}

	if r.recorder != nil {
		r.recorder.CreateTable(resultTableName, repEntry{})
	}

	var bar *monitoring.ProgressBar
	if r.monitor != nil {
		bar = r.monitor.CreateProgressBar(
			r.config.Name, uint64(r.config.Replications))
	}

	r.results = r.results[:0]
	for i := 0; i < r.config.Replications; i++ {
		result, err := r.runReplication(i)
		if err != nil {
			return Summary{}, err
		}

		r.results = append(r.results, result)
		r.record(i, result)

		if bar != nil {
			bar.IncrementFinished(1)
		}
	}

	if r.monitor != nil {
		r.monitor.CompleteProgressBar(bar)
	}

	if r.recorder != nil {
		r.recorder.Flush()
	}

	return r.summarize(), nil
}

// Results returns the per-replication results of the last Run call.
func (r *Runner) Results() []carwash.Result {
	return r.results
}

func (r *Runner) runReplication(i int) (carwash.Result, error) {
	engine := sim.NewSerialEngine()

	station := carwash.MakeBuilder().
		WithEngine(engine).
		WithServiceTime(r.config.ServiceTime).
		WithArrivalProbability(r.config.ArrivalProbability).
		WithHorizon(r.config.Horizon).
		WithSeed(r.config.BaseSeed + int64(i)).
		Build(sim.BuildNameWithIndex("", "Rep", i))

	if r.perfAnalyzer != nil {
		r.perfAnalyzer.RegisterEngine(engine)
		r.perfAnalyzer.RegisterComponent(station)
	}

	return station.Run()
}

func (r *Runner) record(i int, result carwash.Result) {
	if r.recorder == nil {
		return
	}

	r.recorder.InsertData(resultTableName, repEntry{
		Replication: i,
		Seed:        r.config.BaseSeed + int64(i),
		Served:      result.CustomersServed,
		TotalWait:   int64(result.TotalWaitSeconds),
		AverageWait: result.AverageWaitSeconds,
	})
}

func (r *Runner) summarize() Summary {
	summary := Summary{
		Name:         r.config.Name,
		Replications: len(r.results),
	}

	if len(r.results) == 0 {
		return summary
	}

	summary.MinServed = r.results[0].CustomersServed
	summary.MaxServed = r.results[0].CustomersServed

	var servedSum, waitSum float64
	for _, result := range r.results {
		servedSum += float64(result.CustomersServed)
		waitSum += result.AverageWaitSeconds

		if result.CustomersServed < summary.MinServed {
			summary.MinServed = result.CustomersServed
		}

		if result.CustomersServed > summary.MaxServed {
			summary.MaxServed = result.CustomersServed
		}
	}

	summary.MeanServed = servedSum / float64(len(r.results))
	summary.MeanAverageWait = waitSum / float64(len(r.results))

	return summary
}
