package main

import (
	"fmt"
	"log"

	"github.com/sarchlab/washsim/analysis"
	"github.com/sarchlab/washsim/datarecording"
	"github.com/sarchlab/washsim/experiment"
	"github.com/sarchlab/washsim/monitoring"
	"github.com/sarchlab/washsim/sim"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run an experiment of independently seeded replications",
	Long: `Batch runs one scenario many times, seeding each replication with ` +
		`the base seed plus the replication index, and aggregates the ` +
		`results. The scenario comes from a YAML config file when --config ` +
		`is given, and from the flags otherwise. One row per replication is ` +
		`recorded in the output database.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg := batchConfig(cmd)
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Error: %v", err)
		}

		recorder := datarecording.New(cfg.Output)
		runner := experiment.NewRunner(cfg).WithDataRecorder(recorder)

		monitorOn, _ := cmd.Flags().GetBool("monitor")
		if monitorOn {
			runner = runner.WithMonitor(startBatchMonitor(cmd))
		}

		if cfg.SamplingPeriod > 0 {
			perfAnalyzer := analysis.MakePerfAnalyzerBuilder().
				WithPeriod(sim.VTimeInSec(cfg.SamplingPeriod)).
				WithSQLiteBackend().
				WithDBFilename(perfFileName(cfg.Output)).
				Build()
			runner = runner.WithPerfAnalyzer(perfAnalyzer)
		}

		summary, err := runner.Run()
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		fmt.Println(summary.Report())

		recorder.Close()
	},
}

func batchConfig(cmd *cobra.Command) experiment.Config {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		cfg, err := experiment.Load(configPath)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		return cfg
	}

	cfg := experiment.Default()
	cfg.Replications, _ = cmd.Flags().GetInt("replications")
	cfg.ServiceTime, _ = cmd.Flags().GetInt64("service-time")
	cfg.ArrivalProbability, _ = cmd.Flags().GetFloat64("arrival-prob")
	cfg.Horizon, _ = cmd.Flags().GetInt64("horizon")
	cfg.BaseSeed, _ = cmd.Flags().GetInt64("seed")
	cfg.SamplingPeriod, _ = cmd.Flags().GetInt64("line-sample-period")
	cfg.Output = stringOption(cmd, "output", "WASHSIM_OUTPUT")

	return cfg
}

// startBatchMonitor serves progress over HTTP. The runner drives one engine
// per replication, so the monitor gets an idle engine of its own to keep its
// endpoints serviceable.
func startBatchMonitor(cmd *cobra.Command) *monitoring.Monitor {
	monitor := monitoring.NewMonitor()

	if port := intOption(cmd, "monitor-port", "WASHSIM_MONITOR_PORT"); port > 0 {
		monitor.WithPortNumber(port)
	}

	monitor.RegisterEngine(sim.NewSerialEngine())
	monitor.StartServer()

	return monitor
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("config", "",
		"YAML experiment config file")
	batchCmd.Flags().Int("replications", 10000,
		"Number of replications")
	batchCmd.Flags().Int64("service-time", 150,
		"Seconds the washer takes per car")
	batchCmd.Flags().Float64("arrival-prob", 0.004,
		"Probability that a car arrives in any given second")
	batchCmd.Flags().Int64("horizon", 6000,
		"Seconds to simulate per replication")
	batchCmd.Flags().Int64("seed", 0,
		"Base seed; replication i runs with seed base+i")
	batchCmd.Flags().Int64("line-sample-period", 0,
		"Sample the waiting line level every given number of seconds")
	batchCmd.Flags().String("output", "",
		"Name of the result database, without the extension")
	batchCmd.Flags().Bool("monitor", false,
		"Serve batch progress on the monitoring dashboard")
	batchCmd.Flags().Int("monitor-port", 0,
		"Port of the monitoring dashboard")
}
