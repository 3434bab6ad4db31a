package sim

import (
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

// An IDGenerator names events and customers.
type IDGenerator interface {
	Generate() string
}

var ids struct {
	sync.Mutex
	pinned    bool
	generator IDGenerator
}

// UseSequentialIDGenerator numbers IDs 1, 2, 3, ... so that repeated runs
// produce identical traces. This is the default.
func UseSequentialIDGenerator() {
	setIDGenerator(&countingIDGenerator{})
}

// UseXIDGenerator draws globally unique IDs. Sequential numbering restarts
// at 1 in every process, so runs that share one result database need unique
// IDs to keep their task records apart.
func UseXIDGenerator() {
	setIDGenerator(xidGenerator{})
}

func setIDGenerator(g IDGenerator) {
	ids.Lock()
	defer ids.Unlock()

	if ids.pinned {
		log.Panic("cannot change the ID generator after IDs were handed out")
	}

	ids.generator = g
}

// GetIDGenerator returns the generator in use. The first call pins the
// choice for the rest of the process.
func GetIDGenerator() IDGenerator {
	ids.Lock()
	defer ids.Unlock()

	if ids.generator == nil {
		ids.generator = &countingIDGenerator{}
	}

	ids.pinned = true

	return ids.generator
}

type countingIDGenerator struct {
	next atomic.Uint64
}

func (g *countingIDGenerator) Generate() string {
	return strconv.FormatUint(g.next.Add(1), 10)
}

type xidGenerator struct{}

func (xidGenerator) Generate() string {
	return xid.New().String()
}
