package analysis

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/washsim/sim"
)

// BufferAnalyzer reports the time-weighted average level of one buffer,
// either over the whole run or once per sampling period.
type BufferAnalyzer struct {
	PerfLogger
	sim.TimeTeller

	buf       sim.Buffer
	usePeriod bool
	period    sim.VTimeInSec

	lastChange     sim.VTimeInSec
	lastLevel      int
	levelDurations map[int]sim.VTimeInSec
}

// Func records a change in the buffer level. It is meant to be registered as
// a hook on the buffer being watched.
func (b *BufferAnalyzer) Func(ctx sim.HookCtx) {
	now := b.CurrentTime()
	level := ctx.Domain.(sim.Buffer).Size()

	if b.usePeriod && now > b.periodEnd(b.lastChange) {
		b.report()
		b.startPeriodAt(now)
	}

	b.levelDurations[b.lastLevel] += now - b.lastChange
	b.lastLevel = level
	b.lastChange = now
}

func (b *BufferAnalyzer) report() {
	now := b.CurrentTime()

	if !b.usePeriod {
		b.reportPeriod(now, 0, now)
		return
	}

	start := b.periodStart(b.lastChange)
	end := b.periodEnd(b.lastChange)

	for end < now {
		b.reportPeriod(now, start, end)

		b.levelDurations = make(map[int]sim.VTimeInSec)
		b.lastChange = end
		start = end
		end = start + b.period
	}
}

func (b *BufferAnalyzer) reportPeriod(now, start, end sim.VTimeInSec) {
	weighted := 0.0
	total := 0.0

	for level, duration := range b.levelDurations {
		weighted += float64(level) * float64(duration)
		total += float64(duration)
	}

	upTo := min(end, now)
	if upTo > b.lastChange {
		held := upTo - b.lastChange
		weighted += float64(b.lastLevel) * float64(held)
		total += float64(held)
	}

	if total == 0 {
		return
	}

	avg := weighted / total
	if avg == 0 {
		return
	}

	b.PerfLogger.AddDataEntry(PerfAnalyzerEntry{
		Start:     start,
		End:       end,
		Where:     b.buf.Name(),
		What:      "Level",
		EntryType: "Buffer",
		Value:     avg,
		Unit:      "",
	})
}

func (b *BufferAnalyzer) startPeriodAt(now sim.VTimeInSec) {
	b.levelDurations = make(map[int]sim.VTimeInSec)
	b.lastChange = b.periodStart(now)
}

func (b *BufferAnalyzer) periodStart(t sim.VTimeInSec) sim.VTimeInSec {
	return t / b.period * b.period
}

func (b *BufferAnalyzer) periodEnd(t sim.VTimeInSec) sim.VTimeInSec {
	return b.periodStart(t) + b.period
}

// BufferAnalyzerBuilder assembles BufferAnalyzers.
type BufferAnalyzerBuilder struct {
	perfLogger PerfLogger
	timeTeller sim.TimeTeller
	usePeriod  bool
	period     sim.VTimeInSec
	buffer     sim.Buffer
}

// MakeBufferAnalyzerBuilder returns a builder with default settings.
func MakeBufferAnalyzerBuilder() BufferAnalyzerBuilder {
	return BufferAnalyzerBuilder{}
}

// WithPerfLogger sets where the analyzer writes its entries.
func (b BufferAnalyzerBuilder) WithPerfLogger(
	perfLogger PerfLogger,
) BufferAnalyzerBuilder {
	b.perfLogger = perfLogger
	return b
}

// WithTimeTeller sets the source of the current virtual time.
func (b BufferAnalyzerBuilder) WithTimeTeller(
	timeTeller sim.TimeTeller,
) BufferAnalyzerBuilder {
	b.timeTeller = timeTeller
	return b
}

// WithPeriod makes the analyzer report once per sampling period instead of
// once for the whole run.
func (b BufferAnalyzerBuilder) WithPeriod(
	period sim.VTimeInSec,
) BufferAnalyzerBuilder {
	b.usePeriod = true
	b.period = period
	return b
}

// WithBuffer sets the buffer to watch.
func (b BufferAnalyzerBuilder) WithBuffer(
	buffer sim.Buffer,
) BufferAnalyzerBuilder {
	b.buffer = buffer
	return b
}

// Build creates the configured BufferAnalyzer. The analyzer reports its last
// pending period when the program exits.
func (b BufferAnalyzerBuilder) Build() *BufferAnalyzer {
	switch {
	case b.perfLogger == nil:
		panic("a PerfLogger is required")
	case b.timeTeller == nil:
		panic("a TimeTeller is required")
	case b.buffer == nil:
		panic("a buffer is required")
	}

	analyzer := &BufferAnalyzer{
		PerfLogger:     b.perfLogger,
		TimeTeller:     b.timeTeller,
		buf:            b.buffer,
		usePeriod:      b.usePeriod,
		period:         b.period,
		levelDurations: make(map[int]sim.VTimeInSec),
	}

	atexit.Register(analyzer.report)

	return analyzer
}
