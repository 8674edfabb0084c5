package engine

import (
	"container/heap"

	"github.com/khen08/mrt3sim/model"
)

// eventQueue is a min-priority queue of model.Event ordered by
// (time, kind ordinal, insertion sequence), implemented over
// container/heap.Interface.
type eventQueue struct {
	items []model.Event
	seq   uint64
}

func newEventQueue() *eventQueue {
	q := &eventQueue{}
	heap.Init(q)
	return q
}

func (q *eventQueue) Len() int { return len(q.items) }

func (q *eventQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if !a.When().Equal(b.When()) {
		return a.When().Before(b.When())
	}
	if a.Kind() != b.Kind() {
		return a.Kind() < b.Kind()
	}
	return a.Seq() < b.Seq()
}

func (q *eventQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *eventQueue) Push(x any) { q.items = append(q.items, x.(model.Event)) }

func (q *eventQueue) Pop() any {
	old := q.items
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	q.items = old[:n-1]
	return it
}

// Schedule inserts ev, assigning it the next insertion sequence number
// to keep ordering fully deterministic for events that tie on both
// time and kind.
func (q *eventQueue) Schedule(ev model.Event) {
	q.seq++
	ev.SetSeq(q.seq)
	heap.Push(q, ev)
}

// PopNext removes and returns the earliest event, or nil if empty.
func (q *eventQueue) PopNext() model.Event {
	if q.Len() == 0 {
		return nil
	}
	return heap.Pop(q).(model.Event)
}

// Peek returns the earliest event without removing it.
func (q *eventQueue) Peek() model.Event {
	if q.Len() == 0 {
		return nil
	}
	return q.items[0]
}

// Snapshot returns a copy of the pending events, for the arbiter's
// same-timestamp conflict scans (§4.3). The returned slice must not be
// mutated.
func (q *eventQueue) Snapshot() []model.Event {
	out := make([]model.Event, len(q.items))
	copy(out, q.items)
	return out
}
