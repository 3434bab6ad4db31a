package analysis

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/washsim/datarecording"
)

// A PerfAnalyzerBackend persists performance data entries.
type PerfAnalyzerBackend interface {
	AddDataEntry(entry PerfAnalyzerEntry)
	Flush()
}

// CSVBackend writes performance data entries into a CSV file.
type CSVBackend struct {
	dbFile    *os.File
	csvWriter *csv.Writer
}

// NewCSVPerfAnalyzerBackend creates a CSVBackend writing into dbFilename
// plus the ".csv" extension.
func NewCSVPerfAnalyzerBackend(dbFilename string) *CSVBackend {
	file, err := os.OpenFile(dbFilename+".csv",
		os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		panic(err)
	}

	b := &CSVBackend{
		dbFile:    file,
		csvWriter: csv.NewWriter(file),
	}

	header := []string{
		"Start", "End", "Where", "What", "EntryType", "Value", "Unit",
	}
	if err := b.csvWriter.Write(header); err != nil {
		panic(err)
	}

	atexit.Register(b.Flush)

	return b
}

// AddDataEntry appends one row to the CSV file.
func (b *CSVBackend) AddDataEntry(entry PerfAnalyzerEntry) {
	err := b.csvWriter.Write([]string{
		strconv.FormatInt(int64(entry.Start), 10),
		strconv.FormatInt(int64(entry.End), 10),
		entry.Where,
		entry.What,
		entry.EntryType,
		strconv.FormatFloat(entry.Value, 'f', 10, 64),
		entry.Unit,
	})
	if err != nil {
		panic(err)
	}
}

// Flush pushes buffered rows out to the file.
func (b *CSVBackend) Flush() {
	b.csvWriter.Flush()
}

type perfTableEntry struct {
	StartTime int64
	EndTime   int64
	Location  string
	What      string
	EntryType string
	Value     float64
	Unit      string
}

// SQLiteBackend writes performance data entries into the "perf" table of a
// recording database.
type SQLiteBackend struct {
	recorder datarecording.DataRecorder
}

// NewSQLitePerfAnalyzerBackend creates a SQLiteBackend writing into
// dbFilename plus the ".sqlite3" extension.
func NewSQLitePerfAnalyzerBackend(dbFilename string) *SQLiteBackend {
	return NewSQLitePerfAnalyzerBackendWithRecorder(
		datarecording.New(dbFilename))
}

// NewSQLitePerfAnalyzerBackendWithRecorder creates a SQLiteBackend on an
// existing recorder.
func NewSQLitePerfAnalyzerBackendWithRecorder(
	recorder datarecording.DataRecorder,
) *SQLiteBackend {
	b := &SQLiteBackend{recorder: recorder}

	b.recorder.CreateTable("perf", perfTableEntry{})

	return b
}

// AddDataEntry buffers one row for the perf table.
func (b *SQLiteBackend) AddDataEntry(entry PerfAnalyzerEntry) {
	b.recorder.InsertData("perf", perfTableEntry{
		StartTime: int64(entry.Start),
		EndTime:   int64(entry.End),
		Location:  entry.Where,
		What:      entry.What,
		EntryType: entry.EntryType,
		Value:     entry.Value,
		Unit:      entry.Unit,
	})
}

// Flush writes the buffered rows into the database.
func (b *SQLiteBackend) Flush() {
	b.recorder.Flush()
}
