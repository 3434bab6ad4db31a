// Package simulation provides utilities that assemble the common parts of a
// simulation, including the event engine, the data recorder, the visualization
// tracer, and the monitoring server.
package simulation

import (
	"github.com/sarchlab/washsim/datarecording"
	"github.com/sarchlab/washsim/monitoring"
	"github.com/sarchlab/washsim/sim"
	"github.com/sarchlab/washsim/tracing"
)

// A Simulation owns the shared services that components use during a run.
type Simulation struct {
	id string

	engine       sim.Engine
	dataRecorder datarecording.DataRecorder
	execRecorder *datarecording.ExecRecorder
	monitor      *monitoring.Monitor
	visTracer    tracing.Tracer

	components  []sim.Component
	indexByName map[string]int
}

// ID returns the ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the event-driven simulation engine used by the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetDataRecorder returns the data recorder used by the simulation.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used by the simulation. It returns nil if
// monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetVisTracer returns the tracer that records tasks for visualization.
func (s *Simulation) GetVisTracer() tracing.Tracer {
	return s.visTracer
}

// RegisterComponent registers a component with the simulation. All the
// components in the simulation must be registered, and their names must be
// unique.
func (s *Simulation) RegisterComponent(c sim.Component) {
	name := c.Name()
	if _, ok := s.indexByName[name]; ok {
		panic("a component named " + name + " is already registered")
	}

	s.indexByName[name] = len(s.components)
	s.components = append(s.components, c)

	if s.monitor != nil {
		s.monitor.RegisterComponent(c)
	}
}

// Components returns all the components registered with the simulation.
func (s *Simulation) Components() []sim.Component {
	return s.components
}

// GetComponentByName returns the component with the given name. It returns
// nil if no component carries the name.
func (s *Simulation) GetComponentByName(name string) sim.Component {
	index, ok := s.indexByName[name]
	if !ok {
		return nil
	}

	return s.components[index]
}

// Terminate stops the simulation. The simulation object should not be used
// after calling this function.
func (s *Simulation) Terminate() {
	s.execRecorder.End()
	s.dataRecorder.Close()
}
