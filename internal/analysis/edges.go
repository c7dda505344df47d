package analysis

import (
	"github.com/leapstack-labs/leapsched/pkg/core"
)

// Edge is a message sent from one context to a software task.
type Edge struct {
	// Sender is the label of the sending context, e.g. "init@0".
	Sender string
	// SenderPriority is unset when the sender is an init routine.
	SenderPriority core.OptionalPriority
	Receiver       string
}

// SpawnEdges returns every immediate-dispatch edge of app.
func SpawnEdges(app *core.App) []Edge {
	return edgesOf(app, core.Context.Spawns)
}

// ScheduleEdges returns every deferred-dispatch edge of app.
func ScheduleEdges(app *core.App) []Edge {
	return edgesOf(app, core.Context.Schedules)
}

func edgesOf(app *core.App, targets func(core.Context) []string) []Edge {
	var out []Edge
	for _, ctx := range app.Contexts() {
		for _, receiver := range targets(ctx) {
			out = append(out, Edge{
				Sender:         core.Label(ctx),
				SenderPriority: ctx.Priority(),
				Receiver:       receiver,
			})
		}
	}
	return out
}

// receiver resolves the software task targeted by an edge.
func receiver(app *core.App, e Edge) *core.SoftwareTask {
	task, ok := app.SoftwareTasks[e.Receiver]
	if !ok {
		panic("analysis: " + e.Sender + " messages unknown software task " + e.Receiver)
	}
	return task
}

// raiseFreeQueue lifts the free queue ceiling of the edge's receiver. Edges
// from init leave the ceiling untouched.
func raiseFreeQueue(st *accumulator, e Edge) {
	p, ok := e.SenderPriority.Get()
	if !ok {
		return
	}
	st.freeQueues[e.Receiver] = st.freeQueues[e.Receiver].Max(p)
}
