package monitoring

import "sync"

// A ProgressBar counts how many units of a long-running job are done. The
// batch runner advances it one replication at a time; the dashboard polls the
// JSON form.
type ProgressBar struct {
	sync.Mutex
	Name     string `json:"name"`
	Total    uint64 `json:"total"`
	Finished uint64 `json:"finished"`
}

// IncrementFinished marks amount more units as done.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}
