package simulation

import (
	"github.com/rs/xid"
	"github.com/sarchlab/washsim/datarecording"
	"github.com/sarchlab/washsim/monitoring"
	"github.com/sarchlab/washsim/sim"
	"github.com/sarchlab/washsim/tracing"
)

// A Builder can be used to build a simulation.
type Builder struct {
	monitorOn      bool
	monitorPort    int
	outputFileName string

	clickHouseOn       bool
	clickHouseHost     string
	clickHousePort     int
	clickHouseDatabase string
	clickHouseUsername string
	clickHousePassword string
}

// MakeBuilder creates a Builder with default configurations.
func MakeBuilder() Builder {
	return Builder{
		monitorOn:   true,
		monitorPort: 0,
	}
}

// WithoutMonitoring disables the monitoring server.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number used by the monitoring server. If the
// port is not set, a random port is assigned.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithOutputFileName sets the name of the SQLite database that records the
// simulation results. The ".sqlite3" extension is appended to the name. If
// the name is not set, a unique name derived from the simulation ID is used.
func (b Builder) WithOutputFileName(fileName string) Builder {
	b.outputFileName = fileName
	return b
}

// WithClickHouseBackend records the simulation results in a ClickHouse
// database instead of an SQLite file.
func (b Builder) WithClickHouseBackend(
	host string,
	port int,
	database string,
	username string,
	password string,
) Builder {
	b.clickHouseOn = true
	b.clickHouseHost = host
	b.clickHousePort = port
	b.clickHouseDatabase = database
	b.clickHouseUsername = username
	b.clickHousePassword = password

	return b
}

// Build creates a simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		indexByName: make(map[string]int),
	}
	s.id = xid.New().String()

	b.createEngine(s)
	b.createDataRecorder(s)
	b.createVisTracer(s)
	b.createMonitor(s)

	return s
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if b.clickHouseOn && b.outputFileName != "" {
		panic("output file name cannot be set with the ClickHouse backend")
	}
}

func (b Builder) createEngine(s *Simulation) {
	s.engine = sim.NewSerialEngine()
}

func (b Builder) createDataRecorder(s *Simulation) {
	if b.clickHouseOn {
		s.dataRecorder = datarecording.NewClickHouseRecorder(
			b.clickHouseHost,
			b.clickHousePort,
			b.clickHouseDatabase,
			b.clickHouseUsername,
			b.clickHousePassword,
			0,
		)
	} else {
		path := b.outputFileName
		if path == "" {
			path = "washsim_" + s.id
		}

		s.dataRecorder = datarecording.New(path)
	}

	s.execRecorder = datarecording.NewExecRecorder(s.dataRecorder)
	s.execRecorder.Start()
}

func (b Builder) createVisTracer(s *Simulation) {
	s.visTracer = tracing.NewDBTracer(s.engine, s.dataRecorder)
}

func (b Builder) createMonitor(s *Simulation) {
	if !b.monitorOn {
		return
	}

	monitor := monitoring.NewMonitor()
	if b.monitorPort > 0 {
		monitor.WithPortNumber(b.monitorPort)
	}

	monitor.RegisterEngine(s.engine)
	monitor.StartServer()

	s.monitor = monitor
}
