package sim

import (
	"container/heap"
	"container/list"
	"sync"
)

// An EventQueue holds events and serves them in time order.
type EventQueue interface {
	Push(evt Event)
	Pop() Event
	Len() int
	Peek() Event
}

// EventQueueImpl is a thread-safe EventQueue backed by a binary heap.
type EventQueueImpl struct {
	mu      sync.Mutex
	pending timeOrderedEvents
}

// NewEventQueue creates an empty EventQueueImpl.
func NewEventQueue() *EventQueueImpl {
	return &EventQueueImpl{}
}

// Push adds an event to the queue.
func (q *EventQueueImpl) Push(evt Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	heap.Push(&q.pending, evt)
}

// Pop removes and returns the earliest event.
func (q *EventQueueImpl) Pop() Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	return heap.Pop(&q.pending).(Event)
}

// Len returns the number of queued events.
func (q *EventQueueImpl) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.pending)
}

// Peek returns the earliest event without removing it.
func (q *EventQueueImpl) Peek() Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.pending[0]
}

// timeOrderedEvents implements heap.Interface with the earliest event on top.
type timeOrderedEvents []Event

func (te timeOrderedEvents) Len() int {
	return len(te)
}

func (te timeOrderedEvents) Less(i, j int) bool {
	return te[i].Time() < te[j].Time()
}

func (te timeOrderedEvents) Swap(i, j int) {
	te[i], te[j] = te[j], te[i]
}

func (te *timeOrderedEvents) Push(x any) {
	*te = append(*te, x.(Event))
}

func (te *timeOrderedEvents) Pop() any {
	old := *te
	evt := old[len(old)-1]
	*te = old[:len(old)-1]

	return evt
}

// An InsertionQueue is an EventQueue kept sorted at insertion time.
type InsertionQueue struct {
	mu      sync.RWMutex
	ordered *list.List
}

// NewInsertionQueue creates an empty InsertionQueue.
func NewInsertionQueue() *InsertionQueue {
	return &InsertionQueue{ordered: list.New()}
}

// Push inserts an event in front of the first queued event with a later time.
func (q *InsertionQueue) Push(evt Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for e := q.ordered.Front(); e != nil; e = e.Next() {
		queued := e.Value.(Event)
		if queued.Time() > evt.Time() {
			q.ordered.InsertBefore(evt, e)
			return
		}
	}

	q.ordered.PushBack(evt)
}

// Pop removes and returns the earliest event.
func (q *InsertionQueue) Pop() Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.ordered.Remove(q.ordered.Front()).(Event)
}

// Len returns the number of queued events.
func (q *InsertionQueue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return q.ordered.Len()
}

// Peek returns the earliest event without removing it.
func (q *InsertionQueue) Peek() Event {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return q.ordered.Front().Value.(Event)
}
