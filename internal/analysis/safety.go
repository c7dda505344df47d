package analysis

import (
	"github.com/leapstack-labs/leapsched/pkg/core"
)

func init() {
	register(PassDef{
		ID:          "safety",
		Description: "Collect types that must be transferable between contexts",
		Requires:    []string{"late", "ownership", "channels", "timer-queue"},
		Run:         runSafety,
	})
}

// SendTypes returns the types that must be safe to move between execution
// contexts, given the ownership map of app:
//
//   - late resources not owned by idle alone: init produces them and a
//     preemptible context consumes them
//   - resources init accesses whose task-side ownership is not idle-only
//   - payloads of messages from init, or from a sender whose priority differs
//     from the receiver's
func SendTypes(app *core.App, ownerships map[string]core.Ownership, edges []Edge) core.TypeSet {
	send := make(core.TypeSet)

	for _, name := range app.LateResources() {
		if o, ok := ownerships[name]; ok && !o.IsIdleOwned() {
			send.Add(app.Resources[name].Type)
		}
	}

	for _, ctx := range app.Contexts() {
		if ctx.Kind() != core.KindInit {
			continue
		}
		for _, access := range ctx.Accesses() {
			if o, ok := ownerships[access.Resource]; ok && !o.IsIdleOwned() {
				send.Add(app.Resources[access.Resource].Type)
			}
		}
	}

	for _, e := range edges {
		task := receiver(app, e)
		if p, ok := e.SenderPriority.Get(); ok && p == task.Prio {
			continue
		}
		for _, ty := range task.Inputs {
			send.Add(ty)
		}
	}

	return send
}

func runSafety(st *accumulator) {
	edges := append(SpawnEdges(st.app), ScheduleEdges(st.app)...)
	for ty := range SendTypes(st.app, st.ownerships, edges) {
		st.send.Add(ty)
	}
	st.logger.Debug("safety classified", "send_types", len(st.send), "sync_types", len(st.sync))
}
