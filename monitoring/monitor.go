// Package monitoring turns a simulation into a web server so that the
// simulation state can be inspected and controlled while it runs.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"reflect"
	"runtime/pprof"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unsafe"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/washsim/monitoring/web"
	"github.com/sarchlab/washsim/sim"
)

// Monitor serves the state of a running simulation over HTTP. The dashboard
// can pause or continue the engine and inspect registered components.
type Monitor struct {
	engine     sim.Engine
	components []sim.Component
	buffers    []sim.Buffer
	portNumber int

	barsMu       sync.Mutex
	progressBars []*ProgressBar
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port the monitor listens on. Ports below 1000 are
// rejected and replaced with a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Monitor port %d is reserved. Falling back to a random port.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine registers the engine that drives the simulation.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
}

// RegisterComponent adds a component to be monitored. Buffers held in the
// component's fields are picked up for the hang detector.
func (m *Monitor) RegisterComponent(c sim.Component) {
	m.components = append(m.components, c)

	m.registerComponentBuffers(c)
}

func (m *Monitor) registerComponentBuffers(c any) {
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

		m.buffers = append(m.buffers, buf)
	}
}

// CreateProgressBar adds a progress bar to the dashboard.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		Name:  name,
		Total: total,
	}

	m.barsMu.Lock()
	defer m.barsMu.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a finished bar from the dashboard.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.barsMu.Lock()
	defer m.barsMu.Unlock()

	m.progressBars = slices.DeleteFunc(m.progressBars,
		func(b *ProgressBar) bool { return b == pb })
}

// StartServer starts serving the dashboard and the monitoring API in the
// background.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.handlePause)
	r.HandleFunc("/api/continue", m.handleContinue)
	r.HandleFunc("/api/now", m.handleNow)
	r.HandleFunc("/api/run", m.handleRun)
	r.HandleFunc("/api/tick/{name}", m.handleTick)
	r.HandleFunc("/api/list_components", m.handleComponentList)
	r.HandleFunc("/api/component/{name}", m.handleComponentInspect)
	r.HandleFunc("/api/field/{json}", m.handleFieldInspect)
	r.HandleFunc("/api/hangdetector/buffers", m.handleBufferLevels)
	r.HandleFunc("/api/progress", m.handleProgress)
	r.HandleFunc("/api/resource", m.handleResourceUsage)
	r.HandleFunc("/api/profile", m.handleCPUProfile)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))
	http.Handle("/", r)

	port := ":0"
	if m.portNumber >= 1000 {
		port = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", port)
	failOn(err)

	fmt.Fprintf(os.Stderr, "Monitor dashboard is at http://localhost:%d\n",
		listener.Addr().(*net.TCPAddr).Port)

	go func() {
		failOn(http.Serve(listener, nil))
	}()
}

func (m *Monitor) handlePause(w http.ResponseWriter, _ *http.Request) {
	m.engine.Pause()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) handleContinue(w http.ResponseWriter, _ *http.Request) {
	m.engine.Continue()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) handleNow(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"now\":%d}", m.engine.CurrentTime())
}

func (m *Monitor) handleRun(_ http.ResponseWriter, _ *http.Request) {
	go func() {
		failOn(m.engine.Run())
	}()
}

func (m *Monitor) handleComponentList(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, len(m.components))
	for i, c := range m.components {
		names[i] = c.Name()
	}

	failOn(json.NewEncoder(w).Encode(names))
}

type tickable interface {
	TickLater()
}

func (m *Monitor) handleTick(w http.ResponseWriter, r *http.Request) {
	comp := m.lookupComponent(w, mux.Vars(r)["name"])
	if comp == nil {
		return
	}

	ticker, ok := comp.(tickable)
	if !ok {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ticker.TickLater()
	w.WriteHeader(http.StatusOK)
}

// serializeObject writes one level of the object's fields as JSON. A
// non-empty fieldPath descends into the named field first.
func serializeObject(w io.Writer, object any, fieldPath string) error {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(object)
	serializer.SetMaxDepth(1)

	if fieldPath != "" {
		err := serializer.SetEntryPoint(strings.Split(fieldPath, "."))
		if err != nil {
			return err
		}
	}

	return serializer.Serialize(w)
}

func (m *Monitor) handleComponentInspect(
	w http.ResponseWriter,
	r *http.Request,
) {
	component := m.lookupComponent(w, mux.Vars(r)["name"])
	if component == nil {
		return
	}

	failOn(serializeObject(w, component, ""))
}

type fieldQuery struct {
	CompName  string `json:"comp_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) handleFieldInspect(w http.ResponseWriter, r *http.Request) {
	query := fieldQuery{}
	failOn(json.Unmarshal([]byte(mux.Vars(r)["json"]), &query))

	component := m.lookupComponent(w, query.CompName)
	if component == nil {
		return
	}

	failOn(serializeObject(w, component, query.FieldName))
}

type bufferLevelRsp struct {
	Buffer string `json:"buffer"`
	Level  int    `json:"level"`
	Cap    int    `json:"cap"`
}

func (m *Monitor) handleBufferLevels(w http.ResponseWriter, r *http.Request) {
	sortBy, limit, offset, err := parseBufferQuery(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "bad buffer query: %s", err)
		return
	}

	levels := []bufferLevelRsp{}
	for _, b := range m.sortAndSelectBuffers(sortBy, limit, offset) {
		levels = append(levels, bufferLevelRsp{
			Buffer: b.Name(),
			Level:  b.Size(),
			Cap:    b.Capacity(),
		})
	}

	failOn(json.NewEncoder(w).Encode(levels))
}

func parseBufferQuery(
	r *http.Request,
) (sortBy string, limit, offset int, err error) {
	sortBy = r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = "percent"
	}
	if sortBy != "level" && sortBy != "percent" {
		return "", 0, 0, errors.New(
			"sort must be either `level` or `percent`, got " + sortBy)
	}

	limit, err = intQueryParam(r, "limit")
	if err != nil {
		return sortBy, 0, 0, err
	}

	offset, err = intQueryParam(r, "offset")
	if err != nil {
		return sortBy, limit, 0, err
	}

	return sortBy, limit, offset, nil
}

func intQueryParam(r *http.Request, name string) (int, error) {
	str := r.URL.Query().Get(name)
	if str == "" {
		return 0, nil
	}

	return strconv.Atoi(str)
}

// fillRatio treats unbounded buffers as never full.
func fillRatio(b sim.Buffer) float64 {
	capacity := b.Capacity()
	if capacity <= 0 {
		return 0
	}

	return float64(b.Size()) / float64(capacity)
}

func (m *Monitor) sortAndSelectBuffers(
	sortBy string,
	limit, offset int,
) []sim.Buffer {
	sorted := append([]sim.Buffer{}, m.buffers...)

	var fuller func(i, j int) bool
	switch sortBy {
	case "level":
		fuller = func(i, j int) bool {
			if sorted[i].Size() != sorted[j].Size() {
				return sorted[i].Size() > sorted[j].Size()
			}

			return fillRatio(sorted[i]) > fillRatio(sorted[j])
		}
	case "percent":
		fuller = func(i, j int) bool {
			ratioI, ratioJ := fillRatio(sorted[i]), fillRatio(sorted[j])
			if ratioI != ratioJ {
				return ratioI > ratioJ
			}

			return sorted[i].Size() > sorted[j].Size()
		}
	default:
		panic("unknown sort method " + sortBy)
	}

	sort.Slice(sorted, fuller)

	offset = min(offset, len(sorted))
	end := min(offset+limit, len(sorted))

	return sorted[offset:end]
}

func (m *Monitor) lookupComponent(
	w http.ResponseWriter,
	name string,
) sim.Component {
	for _, c := range m.components {
		if c.Name() == name {
			return c
		}
	}

	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, "no component named %q", name)

	return nil
}

func (m *Monitor) handleProgress(w http.ResponseWriter, _ *http.Request) {
	m.barsMu.Lock()
	body, err := json.Marshal(m.progressBars)
	m.barsMu.Unlock()
	failOn(err)

	_, err = w.Write(body)
	failOn(err)
}

type resourceUsageRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) handleResourceUsage(w http.ResponseWriter, _ *http.Request) {
	self, err := process.NewProcess(int32(os.Getpid()))
	failOn(err)

	cpuPercent, err := self.CPUPercent()
	failOn(err)

	memory, err := self.MemoryInfo()
	failOn(err)

	failOn(json.NewEncoder(w).Encode(resourceUsageRsp{
		CPUPercent: cpuPercent,
		MemorySize: memory.RSS,
	}))
}

func (m *Monitor) handleCPUProfile(w http.ResponseWriter, _ *http.Request) {
	sample := bytes.NewBuffer(nil)

	failOn(pprof.StartCPUProfile(sample))
	time.Sleep(time.Second)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(sample.Bytes())
	failOn(err)

	failOn(json.NewEncoder(w).Encode(prof))
}

func failOn(err error) {
	if err != nil {
		log.Panic(err)
	}
}
