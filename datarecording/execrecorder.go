package datarecording

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

type execInfo struct {
	Property string
	Value    string
}

// An ExecRecorder stores metadata about the current program execution in the
// "exec_info" table, so that a result database always tells how it was
// produced.
type ExecRecorder struct {
	tableName string
	recorder  DataRecorder
	entries   []execInfo
}

// NewExecRecorder creates an ExecRecorder that writes through the given
// DataRecorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	e := &ExecRecorder{
		tableName: "exec_info",
		recorder:  recorder,
		entries:   []execInfo{},
	}

	e.recorder.CreateTable(e.tableName, execInfo{})

	return e
}

// Start logs the current execution.
func (e *ExecRecorder) Start() {
	startTime := time.Now().Format("2006-01-02 15:04:05.000000000")
	e.entries = append(e.entries, execInfo{"Start Time", startTime})

	cmd := strings.Join(os.Args, " ")
	e.entries = append(e.entries, execInfo{"Command", cmd})

	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}

	cwd := filepath.Dir(ex)
	e.entries = append(e.entries, execInfo{"Working Directory", cwd})
}

// End writes the collected entries along with the program end time.
func (e *ExecRecorder) End() {
	for _, entry := range e.entries {
		e.recorder.InsertData(e.tableName, entry)
	}

	endTime := time.Now().Format("2006-01-02 15:04:05.000000000")
	e.recorder.InsertData(e.tableName, execInfo{"End Time", endTime})

	e.entries = nil

	e.recorder.Flush()
}
