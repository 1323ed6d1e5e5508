// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package kernel

// event.go defines the two priority queues the scheduler advances
// through (game-time and real-time) and the tagged event variants they
// carry. Each schedulable event is one of {Intersection, StopResting,
// KeyPress, KeyRelease}; handlers are fixed dispatch functions (see
// scheduler.go) rather than duck-typed callables, trading runtime
// attribute injection for a small tagged dispatch table.
//
// Entities never hold full events, only EventHandle values: opaque,
// generational-free tokens used solely to flip an event's Invalid flag
// when an entity's trajectory changes. This avoids reference cycles
// between entities and the heaps that own the events.

import "container/heap"

// EventKind distinguishes the payload carried by a game or real event.
type EventKind int

const (
	EventIntersection EventKind = iota
	EventStopResting
	EventKeyPress
	EventKeyRelease
)

func (k EventKind) String() string {
	switch k {
	case EventIntersection:
		return "Intersection"
	case EventStopResting:
		return "StopResting"
	case EventKeyPress:
		return "KeyPress"
	case EventKeyRelease:
		return "KeyRelease"
	default:
		return "Unknown"
	}
}

// EventHandle is an opaque reference to a scheduled event, stable
// across heap reordering. It is used only to flag an event invalid.
type EventHandle uint64

// KeyCode is a symbolic keyboard key name, e.g. "Space", "Up".
// Strings are used (rather than a closed int enumeration) so that the
// config package's YAML keybinding loader can validate names without
// a generated lookup table living in two packages.
type KeyCode string

// IntersectionEvent is a predicted collision between two entities.
// The collision normal, impact position, and world-space line at
// impact time are derived on demand (see Normal, ImpactPosition)
// rather than stored, since they depend on the entities' trajectories
// which may change between prediction and dispatch.
type IntersectionEvent struct {
	handle EventHandle

	EntityA, EntityB EntityID
	PointIndex       int // index into EntityA's positioned shape points
	SegmentIndex     int // index into EntityB's positioned shape segments

	Time      float64 // absolute game time of impact (t*)
	DeltaTime float64 // t* - prediction time, kept for validity filtering
	Invalid   bool
}

// Handle returns the stable handle used to invalidate this event.
func (ev *IntersectionEvent) Handle() EventHandle { return ev.handle }

// StopRestingEvent fires when a resting contact's tangential sliding
// carries the contact point to the end of the supporting segment,
// ending the resting constraint.
type StopRestingEvent struct {
	handle EventHandle

	Mover, Supporter         EntityID
	PointIndex, SegmentIndex int
	Time                     float64
	Invalid                  bool
}

// Handle returns the stable handle used to invalidate this event.
func (ev *StopRestingEvent) Handle() EventHandle { return ev.handle }

// KeyEvent is a real-time KeyPress or KeyRelease event produced by the
// input adapter (see the input package) from a polled key-state delta.
type KeyEvent struct {
	handle EventHandle

	Kind    EventKind // EventKeyPress or EventKeyRelease
	Key     KeyCode
	Time    float64 // real time (seconds) of the transition
	Invalid bool
}

// Handle returns the stable handle used to invalidate this event.
func (ev *KeyEvent) Handle() EventHandle { return ev.handle }

// gameEvent is the heap element for the game-time queue: either an
// IntersectionEvent or a StopRestingEvent.
type gameEvent struct {
	handle       EventHandle
	time         float64
	intersection *IntersectionEvent
	stopResting  *StopRestingEvent
}

func (e *gameEvent) invalid() bool {
	if e.intersection != nil {
		return e.intersection.Invalid
	}
	return e.stopResting.Invalid
}

func (e *gameEvent) setInvalid() {
	if e.intersection != nil {
		e.intersection.Invalid = true
		return
	}
	e.stopResting.Invalid = true
}

// realEvent is the heap element for the real-time queue: a KeyEvent.
type realEvent struct {
	handle EventHandle
	time   float64
	key    *KeyEvent
}

func (e *realEvent) invalid() bool   { return e.key.Invalid }
func (e *realEvent) setInvalid()     { e.key.Invalid = true }

// gameHeap is a min-heap of gameEvent ordered by game time, used via
// container/heap the same way the pathfinder's priority-point heap in
// the ai package orders its frontier by estimated cost.
type gameHeap []*gameEvent

func (h gameHeap) Len() int            { return len(h) }
func (h gameHeap) Less(i, j int) bool  { return h[i].time < h[j].time }
func (h gameHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *gameHeap) Push(x any)         { *h = append(*h, x.(*gameEvent)) }
func (h *gameHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// realHeap is a min-heap of realEvent ordered by real time.
type realHeap []*realEvent

func (h realHeap) Len() int           { return len(h) }
func (h realHeap) Less(i, j int) bool { return h[i].time < h[j].time }
func (h realHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *realHeap) Push(x any)        { *h = append(*h, x.(*realEvent)) }
func (h *realHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// eventQueues owns the two heaps, a handle-indexed lookup for O(1)
// invalidation, and the monotonic handle counter. It is embedded in
// World rather than exported directly: callers go through World's
// scheduling methods.
type eventQueues struct {
	games     gameHeap
	reals     realHeap
	byHandle  map[EventHandle]any // *gameEvent or *realEvent
	nextHandle EventHandle
}

func newEventQueues() *eventQueues {
	return &eventQueues{byHandle: map[EventHandle]any{}}
}

func (q *eventQueues) allocHandle() EventHandle {
	q.nextHandle++
	return q.nextHandle
}

func (q *eventQueues) pushIntersection(ev *IntersectionEvent) {
	ev.handle = q.allocHandle()
	item := &gameEvent{handle: ev.handle, time: ev.Time, intersection: ev}
	heap.Push(&q.games, item)
	q.byHandle[ev.handle] = item
}

func (q *eventQueues) pushStopResting(ev *StopRestingEvent) {
	ev.handle = q.allocHandle()
	item := &gameEvent{handle: ev.handle, time: ev.Time, stopResting: ev}
	heap.Push(&q.games, item)
	q.byHandle[ev.handle] = item
}

func (q *eventQueues) pushKey(ev *KeyEvent) {
	ev.handle = q.allocHandle()
	item := &realEvent{handle: ev.handle, time: ev.Time, key: ev}
	heap.Push(&q.reals, item)
	q.byHandle[ev.handle] = item
}

// invalidate flags the event referenced by h as invalid, if it still
// exists. A handle for an already-dispatched or already-compacted
// event is silently ignored.
func (q *eventQueues) invalidate(h EventHandle) {
	switch item := q.byHandle[h].(type) {
	case *gameEvent:
		item.setInvalid()
	case *realEvent:
		item.setInvalid()
	}
}

// compact removes tombstoned (invalid) events from both heaps and
// re-heapifies. Expected to run at least once per tick.
func (q *eventQueues) compact() {
	kept := q.games[:0]
	for _, item := range q.games {
		if item.invalid() {
			delete(q.byHandle, item.handle)
			continue
		}
		kept = append(kept, item)
	}
	q.games = kept
	heap.Init(&q.games)

	keptR := q.reals[:0]
	for _, item := range q.reals {
		if item.invalid() {
			delete(q.byHandle, item.handle)
			continue
		}
		keptR = append(keptR, item)
	}
	q.reals = keptR
	heap.Init(&q.reals)
}

// peekGame returns the earliest non-invalid game event without
// removing it. Tombstones found at the top of the heap on the way are
// popped and discarded.
func (q *eventQueues) peekGame() *gameEvent {
	for len(q.games) > 0 {
		top := q.games[0]
		if top.invalid() {
			heap.Pop(&q.games)
			delete(q.byHandle, top.handle)
			continue
		}
		return top
	}
	return nil
}

// peekReal returns the earliest non-invalid real event without
// removing it, same tombstone-skipping behaviour as peekGame.
func (q *eventQueues) peekReal() *realEvent {
	for len(q.reals) > 0 {
		top := q.reals[0]
		if top.invalid() {
			heap.Pop(&q.reals)
			delete(q.byHandle, top.handle)
			continue
		}
		return top
	}
	return nil
}

func (q *eventQueues) popGame() *gameEvent {
	item := heap.Pop(&q.games).(*gameEvent)
	delete(q.byHandle, item.handle)
	return item
}

func (q *eventQueues) popReal() *realEvent {
	item := heap.Pop(&q.reals).(*realEvent)
	delete(q.byHandle, item.handle)
	return item
}

// restingKey identifies one resting contact by the pair of entities
// and the specific point/segment indices involved, matching the
// (mover, supporter, point_index, segment_index) tuple.
type restingKey struct {
	Mover, Supporter         EntityID
	PointIndex, SegmentIndex int
}
