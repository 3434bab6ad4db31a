// Package analysis reports performance metrics collected during a
// simulation, such as the time-weighted average level of the waiting line.
package analysis

import (
	"reflect"
	"unsafe"

	"github.com/sarchlab/washsim/sim"
)

// A PerfAnalyzerEntry is one measured value over one period.
type PerfAnalyzerEntry struct {
	Start     sim.VTimeInSec
	End       sim.VTimeInSec
	Where     string
	What      string
	EntryType string
	Value     float64
	Unit      string
}

// A PerfLogger records performance data entries.
type PerfLogger interface {
	AddDataEntry(entry PerfAnalyzerEntry)
}

// PerfAnalyzer reports performance metrics of a running simulation.
type PerfAnalyzer struct {
	usePeriod bool
	period    sim.VTimeInSec
	engine    sim.Engine
	backend   PerfAnalyzerBackend
}

// RegisterEngine registers the engine that drives the simulation.
func (p *PerfAnalyzer) RegisterEngine(e sim.Engine) {
	p.engine = e
}

// RegisterComponent adds a component to be analyzed. Buffers held in the
// component's fields are discovered and analyzed.
func (p *PerfAnalyzer) RegisterComponent(c sim.Component) {
	p.registerComponentBuffers(c)
}

func (p *PerfAnalyzer) registerComponentBuffers(c any) {
	bufferType := reflect.TypeOf((*sim.Buffer)(nil)).Elem()

	elem := reflect.ValueOf(c).Elem()
	for i := range elem.NumField() {
		field := elem.Field(i)
		if field.Type() != bufferType {
			continue
		}

		// Reading unexported fields needs a fresh addressable view.
		buf := reflect.NewAt(
			field.Type(),
			unsafe.Pointer(field.UnsafeAddr()),
		).Elem().Interface().(sim.Buffer)

		p.RegisterBuffer(buf)
	}
}

// RegisterBuffer adds a buffer to be analyzed.
func (p *PerfAnalyzer) RegisterBuffer(buf sim.Buffer) {
	builder := MakeBufferAnalyzerBuilder().
		WithTimeTeller(p.engine).
		WithPerfLogger(p).
		WithBuffer(buf)

	if p.usePeriod {
		builder = builder.WithPeriod(p.period)
	}

	buf.AcceptHook(builder.Build())
}

// AddDataEntry forwards a data entry to the backend.
func (p *PerfAnalyzer) AddDataEntry(entry PerfAnalyzerEntry) {
	p.backend.AddDataEntry(entry)
}

// PerfAnalyzerBuilder can build a PerfAnalyzer.
type PerfAnalyzerBuilder struct {
	usePeriod   bool
	period      sim.VTimeInSec
	backendType string
	dbFilename  string
}

// MakePerfAnalyzerBuilder creates a PerfAnalyzerBuilder that, by default,
// writes whole-run metrics into a CSV file named "perf.csv".
func MakePerfAnalyzerBuilder() PerfAnalyzerBuilder {
	return PerfAnalyzerBuilder{
		backendType: "csv",
		dbFilename:  "perf",
	}
}

// WithPeriod makes the analyzer report once per sampling period instead of
// once for the whole run.
func (b PerfAnalyzerBuilder) WithPeriod(
	period sim.VTimeInSec,
) PerfAnalyzerBuilder {
	b.usePeriod = true
	b.period = period
	return b
}

// WithSQLiteBackend makes the analyzer write into a SQLite database instead
// of a CSV file.
func (b PerfAnalyzerBuilder) WithSQLiteBackend() PerfAnalyzerBuilder {
	b.backendType = "sqlite"
	return b
}

// WithDBFilename sets the name of the output file, without the extension.
func (b PerfAnalyzerBuilder) WithDBFilename(
	filename string,
) PerfAnalyzerBuilder {
	b.dbFilename = filename
	return b
}

// Build creates the configured PerfAnalyzer.
func (b PerfAnalyzerBuilder) Build() *PerfAnalyzer {
	var backend PerfAnalyzerBackend

	switch b.backendType {
	case "csv":
		backend = NewCSVPerfAnalyzerBackend(b.dbFilename)
	case "sqlite":
		backend = NewSQLitePerfAnalyzerBackend(b.dbFilename)
	default:
		panic("unknown backend type " + b.backendType)
	}

	return &PerfAnalyzer{
		usePeriod: b.usePeriod,
		period:    b.period,
		backend:   backend,
	}
}
