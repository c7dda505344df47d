package analysis

import (
	"sort"

	"github.com/leapstack-labs/leapsched/pkg/core"
)

func init() {
	register(PassDef{
		ID:          "timer-queue",
		Description: "Aggregate schedule edges into the timer queue",
		Requires:    []string{"ownership"},
		Run:         runTimerQueue,
	})
}

// BuildTimerQueue folds schedule edges into the single timer queue of a build.
//
// The queue's priority is raised to the most urgent task it releases, and its
// ceiling to the most urgent context that enqueues into it. Finally the
// ceiling is lifted to at least the queue priority, because the releasing
// handler itself dequeues at that priority. An empty queue keeps the default
// priority and ceiling of 1.
func BuildTimerQueue(app *core.App, edges []Edge) *core.TimerQueue {
	tq := core.NewTimerQueue()
	members := make(map[string]bool)

	for _, e := range edges {
		task := receiver(app, e)
		members[task.Name()] = true
		tq.Priority = core.MaxPriority(tq.Priority, task.Prio)

		if p, ok := e.SenderPriority.Get(); ok {
			tq.Ceiling = core.MaxPriority(tq.Ceiling, p)
		}
	}

	for name := range members {
		tq.Tasks = append(tq.Tasks, name)
		tq.Capacity += app.SoftwareTasks[name].EffectiveCapacity()
	}
	sort.Strings(tq.Tasks)
	tq.Ceiling = core.MaxPriority(tq.Ceiling, tq.Priority)

	return tq
}

func runTimerQueue(st *accumulator) {
	edges := ScheduleEdges(st.app)
	st.timerQueue = BuildTimerQueue(st.app, edges)
	for _, e := range edges {
		raiseFreeQueue(st, e)
	}
	st.logger.Debug("timer queue built",
		"priority", st.timerQueue.Priority,
		"ceiling", st.timerQueue.Ceiling,
		"capacity", st.timerQueue.Capacity,
		"tasks", len(st.timerQueue.Tasks),
	)
}
