package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sarchlab/washsim/analysis"
	"github.com/sarchlab/washsim/carwash"
	"github.com/sarchlab/washsim/sim"
	"github.com/sarchlab/washsim/simulation"
	"github.com/sarchlab/washsim/tracing"
	"github.com/spf13/cobra"
)

// A resultEntry is one run's outcome as stored in the "results" table.
type resultEntry struct {
	ServiceTime        int64
	ArrivalProbability float64
	Horizon            int64
	Seed               int64
	Served             int64
	TotalWait          int64
	AverageWait        float64
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation and print its result",
	Long: `Run simulates one day at the car wash and prints the number of ` +
		`cars washed and their average waiting time. The result is also ` +
		`recorded in the output database.`,
	Run: func(cmd *cobra.Command, _ []string) {
		serviceTime, _ := cmd.Flags().GetInt64("service-time")
		arrivalProb, _ := cmd.Flags().GetFloat64("arrival-prob")
		horizon, _ := cmd.Flags().GetInt64("horizon")
		seed, _ := cmd.Flags().GetInt64("seed")
		trace, _ := cmd.Flags().GetBool("trace")
		logEvents, _ := cmd.Flags().GetBool("log-events")
		samplePeriod, _ := cmd.Flags().GetInt64("line-sample-period")
		monitorOn, _ := cmd.Flags().GetBool("monitor")
		output := stringOption(cmd, "output", "WASHSIM_OUTPUT")
		monitorPort := intOption(cmd, "monitor-port", "WASHSIM_MONITOR_PORT")

		scenario := carwash.Config{
			ServiceTime: serviceTime,
			ArrivalProb: arrivalProb,
			Horizon:     horizon,
		}
		if err := scenario.Validate(); err != nil {
			log.Fatalf("Error: %v", err)
		}

		if monitorPort > 0 && !monitorOn {
			log.Fatalf("Error: --monitor-port requires --monitor")
		}

		builder := simulation.MakeBuilder().WithOutputFileName(output)
		if !monitorOn {
			builder = builder.WithoutMonitoring()
		}
		if monitorPort > 0 {
			builder = builder.WithMonitorPort(monitorPort)
		}

		s := builder.Build()

		station := carwash.MakeBuilder().
			WithEngine(s.GetEngine()).
			WithServiceTime(serviceTime).
			WithArrivalProbability(arrivalProb).
			WithHorizon(horizon).
			WithSeed(seed).
			Build("Station")
		s.RegisterComponent(station)

		if trace {
			tracing.CollectTrace(station, s.GetVisTracer())
		}

		if logEvents {
			logger := log.New(os.Stderr, "", 0)
			s.GetEngine().AcceptHook(sim.NewEventLogger(logger))
		}

		if samplePeriod > 0 {
			perfAnalyzer := analysis.MakePerfAnalyzerBuilder().
				WithPeriod(sim.VTimeInSec(samplePeriod)).
				WithSQLiteBackend().
				WithDBFilename(perfFileName(output)).
				Build()
			perfAnalyzer.RegisterEngine(s.GetEngine())
			perfAnalyzer.RegisterComponent(station)
		}

		result, err := station.Run()
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		recorder := s.GetDataRecorder()
		recorder.CreateTable("results", resultEntry{})
		recorder.InsertData("results", resultEntry{
			ServiceTime:        serviceTime,
			ArrivalProbability: arrivalProb,
			Horizon:            horizon,
			Seed:               seed,
			Served:             result.CustomersServed,
			TotalWait:          int64(result.TotalWaitSeconds),
			AverageWait:        result.AverageWaitSeconds,
		})

		fmt.Println(result.Report())

		s.Terminate()
	},
}

// perfFileName derives the line-level database name from the output name.
func perfFileName(output string) string {
	if output == "" {
		return "perf"
	}

	return output + "_perf"
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int64("service-time", 150,
		"Seconds the washer takes per car")
	runCmd.Flags().Float64("arrival-prob", 0.004,
		"Probability that a car arrives in any given second")
	runCmd.Flags().Int64("horizon", 6000,
		"Seconds to simulate")
	runCmd.Flags().Int64("seed", 0,
		"Seed of the arrival sequence")
	runCmd.Flags().String("output", "",
		"Name of the result database, without the extension")
	runCmd.Flags().Bool("monitor", false,
		"Serve the monitoring dashboard while the simulation runs")
	runCmd.Flags().Int("monitor-port", 0,
		"Port of the monitoring dashboard")
	runCmd.Flags().Bool("trace", false,
		"Record customer wait and wash tasks in the result database")
	runCmd.Flags().Bool("log-events", false,
		"Print every simulation event to stderr as it triggers")
	runCmd.Flags().Int64("line-sample-period", 0,
		"Sample the waiting line level every given number of seconds")
}
