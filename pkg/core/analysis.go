package core

import "sort"

// =============================================================================
// Message queues
// =============================================================================

// Channel is the message queue drained by the dispatcher of one priority level.
type Channel struct {
	// Priority is the dispatch priority of every member task.
	Priority Priority
	// Ceiling is the highest priority of any context spawning into the
	// channel. Unset when only init routines spawn into it.
	Ceiling OptionalPriority
	// Capacity is the sum of the member tasks' capacities.
	Capacity uint
	// Tasks are the member software tasks, sorted.
	Tasks []string
}

// TimerQueue is the single deferred-dispatch queue of a build.
type TimerQueue struct {
	// Priority is the priority of the handler releasing scheduled tasks.
	Priority Priority
	// Ceiling is at least the priority of every context enqueueing into the queue.
	Ceiling Priority
	// Capacity is the sum of the schedulable tasks' capacities.
	Capacity uint
	// Tasks are the schedulable software tasks, sorted.
	Tasks []string
}

// DefaultTimerQueuePriority is both the priority and the ceiling of an empty
// timer queue: the lowest real task priority.
const DefaultTimerQueuePriority Priority = 1

// NewTimerQueue returns an empty timer queue with default priority and ceiling.
func NewTimerQueue() *TimerQueue {
	return &TimerQueue{
		Priority: DefaultTimerQueuePriority,
		Ceiling:  DefaultTimerQueuePriority,
	}
}

// Empty reports whether no task is ever scheduled. Empty queues are not
// materialized by the code generator.
func (q *TimerQueue) Empty() bool {
	return len(q.Tasks) == 0
}

// =============================================================================
// TypeSet
// =============================================================================

// TypeSet is a set of type names.
type TypeSet map[string]struct{}

// Add inserts a type name.
func (s TypeSet) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether the set contains name.
func (s TypeSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the type names in lexical order.
func (s TypeSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// =============================================================================
// Analysis
// =============================================================================

// Analysis is everything the code generator needs to emit a lock-minimal
// runtime. It is produced once and never mutated afterwards.
type Analysis struct {
	// LateResources maps each core to the late resources its init produces.
	LateResources map[Core][]string
	// Ownerships has an entry for every resource accessed by a task or idle.
	// Resources touched only by init have no entry.
	Ownerships map[string]Ownership
	// Locations has an entry for every resource with an ownership.
	Locations map[string]Location
	// Channels are keyed by dispatch priority.
	Channels map[Priority]*Channel
	// FreeQueues maps a software task to the ceiling of its free queue. Tasks
	// only ever messaged from init have an unset ceiling.
	FreeQueues map[string]OptionalPriority
	TimerQueue *TimerQueue
	// SendTypes must be safe to move between execution contexts.
	SendTypes TypeSet
	// SyncTypes must be safe to read concurrently from several priorities.
	SyncTypes TypeSet
}

// NeedsLock reports whether a context at priority must lock resource.
func (a *Analysis) NeedsLock(resource string, priority Priority) bool {
	o, ok := a.Ownerships[resource]
	return ok && o.NeedsLock(priority)
}

// ChannelPriorities returns the channel keys in ascending order.
func (a *Analysis) ChannelPriorities() []Priority {
	out := make([]Priority, 0, len(a.Channels))
	for p := range a.Channels {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// InitializedBy returns the core whose init routine produces the late resource.
func (a *Analysis) InitializedBy(resource string) (Core, bool) {
	for c, names := range a.LateResources {
		for _, n := range names {
			if n == resource {
				return c, true
			}
		}
	}
	return 0, false
}
