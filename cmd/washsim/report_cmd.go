package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/sarchlab/washsim/datarecording"
	"github.com/spf13/cobra"
)

type execInfoRow struct {
	Property string
	Value    string
}

type resultRow struct {
	ServiceTime        int64
	ArrivalProbability float64
	Horizon            int64
	Seed               int64
	Served             int64
	TotalWait          int64
	AverageWait        float64
}

type replicationRow struct {
	Replication int
	Seed        int64
	Served      int64
	TotalWait   int64
	AverageWait float64
}

type traceRow struct {
	ID        string
	ParentID  string
	Kind      string
	What      string
	Location  string
	StartTime int64
	EndTime   int64
}

type perfRow struct {
	StartTime int64
	EndTime   int64
	Location  string
	What      string
	EntryType string
	Value     float64
	Unit      string
}

var reportCmd = &cobra.Command{
	Use:   "report [database]",
	Short: "Summarize a recorded result database",
	Long: `Report reads a database recorded by the run or batch command and ` +
		`prints the execution metadata, the run results, the replication ` +
		`aggregates, and the task trace summary, whichever are present.`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		reader := datarecording.NewReader(databasePath(args[0]))
		defer reader.Close()

		reportExecInfo(reader)
		reportResults(reader)
		reportReplications(reader)
		reportTrace(reader)
		reportPerf(reader)
	},
}

// databasePath accepts both the recorded filename and the extension-less
// name the recorder was given.
func databasePath(arg string) string {
	if _, err := os.Stat(arg); err == nil {
		return arg
	}

	withExt := arg + ".sqlite3"
	if _, err := os.Stat(withExt); err == nil {
		return withExt
	}

	log.Fatalf("Error: no database at %s", arg)

	return ""
}

// skipTable reports whether the table is absent from the database. Any other
// query failure ends the command.
func skipTable(err error) bool {
	if err == nil {
		return false
	}

	if strings.Contains(err.Error(), "no such table") {
		return true
	}

	log.Fatalf("Error: %v", err)

	return true
}

func reportExecInfo(reader datarecording.DataReader) {
	reader.MapTable("exec_info", execInfoRow{})

	rows, _, err := reader.Query(
		context.Background(), "exec_info", datarecording.QueryParams{})
	if skipTable(err) || len(rows) == 0 {
		return
	}

	fmt.Println("Execution:")
	for _, row := range rows {
		info := row.(*execInfoRow)
		fmt.Printf("  %-18s %s\n", info.Property, info.Value)
	}
	fmt.Println()
}

func reportResults(reader datarecording.DataReader) {
	reader.MapTable("results", resultRow{})

	rows, _, err := reader.Query(
		context.Background(), "results", datarecording.QueryParams{})
	if skipTable(err) || len(rows) == 0 {
		return
	}

	fmt.Println("Runs:")
	for _, row := range rows {
		result := row.(*resultRow)
		fmt.Printf(
			"  service %ds, probability %.3f, horizon %ds, seed %d: "+
				"washed %d cars, average wait %.2f seconds\n",
			result.ServiceTime, result.ArrivalProbability, result.Horizon,
			result.Seed, result.Served, result.AverageWait)
	}
	fmt.Println()
}

func reportReplications(reader datarecording.DataReader) {
	reader.MapTable("replications", replicationRow{})

	rows, total, err := reader.Query(
		context.Background(), "replications", datarecording.QueryParams{})
	if skipTable(err) || len(rows) == 0 {
		return
	}

	minServed := rows[0].(*replicationRow).Served
	maxServed := minServed

	var servedSum, waitSum float64
	for _, row := range rows {
		rep := row.(*replicationRow)

		servedSum += float64(rep.Served)
		waitSum += rep.AverageWait

		if rep.Served < minServed {
			minServed = rep.Served
		}

		if rep.Served > maxServed {
			maxServed = rep.Served
		}
	}

	fmt.Println("Replications:")
	fmt.Printf(
		"  %d replications, washed %.2f cars on average (min %d, max %d), "+
			"mean average waiting time %.2f seconds\n",
		total, servedSum/float64(len(rows)), minServed, maxServed,
		waitSum/float64(len(rows)))
	fmt.Println()
}

func reportTrace(reader datarecording.DataReader) {
	reader.MapTable("trace", traceRow{})

	rows, total, err := reader.Query(
		context.Background(), "trace", datarecording.QueryParams{})
	if skipTable(err) || len(rows) == 0 {
		return
	}

	durationSum := make(map[string]int64)
	taskCount := make(map[string]int)
	for _, row := range rows {
		task := row.(*traceRow)
		durationSum[task.Kind] += task.EndTime - task.StartTime
		taskCount[task.Kind]++
	}

	kinds := make([]string, 0, len(taskCount))
	for kind := range taskCount {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	fmt.Printf("Trace: %d tasks\n", total)
	for _, kind := range kinds {
		fmt.Printf("  %-6s %d tasks, %.2f seconds on average\n",
			kind, taskCount[kind],
			float64(durationSum[kind])/float64(taskCount[kind]))
	}
	fmt.Println()
}

func reportPerf(reader datarecording.DataReader) {
	reader.MapTable("perf", perfRow{})

	rows, total, err := reader.Query(
		context.Background(), "perf", datarecording.QueryParams{})
	if skipTable(err) || len(rows) == 0 {
		return
	}

	valueSum := make(map[string]float64)
	entryCount := make(map[string]int)
	for _, row := range rows {
		entry := row.(*perfRow)
		key := entry.Location + " " + entry.What
		valueSum[key] += entry.Value
		entryCount[key]++
	}

	keys := make([]string, 0, len(entryCount))
	for key := range entryCount {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Printf("Performance: %d entries\n", total)
	for _, key := range keys {
		fmt.Printf("  %-30s %d entries, %.4f on average\n",
			key, entryCount[key],
			valueSum[key]/float64(entryCount[key]))
	}
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
