package analysis

import (
	"sort"

	"github.com/leapstack-labs/leapsched/pkg/core"
)

func init() {
	register(PassDef{
		ID:          "channels",
		Description: "Bucket spawn edges into per-priority channels and size free queues",
		Requires:    []string{"ownership"},
		Run:         runChannels,
	})
}

// PlanChannels folds spawn edges into channels keyed by the receiver's
// dispatch priority. Free queue ceilings of the receivers are raised in
// freeQueues, which must not be nil.
func PlanChannels(app *core.App, edges []Edge, freeQueues map[string]core.OptionalPriority) map[core.Priority]*core.Channel {
	members := make(map[core.Priority]map[string]bool)
	channels := make(map[core.Priority]*core.Channel)

	for _, e := range edges {
		task := receiver(app, e)
		prio := task.Prio

		ch, ok := channels[prio]
		if !ok {
			ch = &core.Channel{Priority: prio}
			channels[prio] = ch
			members[prio] = make(map[string]bool)
		}
		members[prio][task.Name()] = true

		if p, ok := e.SenderPriority.Get(); ok {
			ch.Ceiling = ch.Ceiling.Max(p)
			freeQueues[e.Receiver] = freeQueues[e.Receiver].Max(p)
		}
	}

	for prio, ch := range channels {
		for name := range members[prio] {
			ch.Tasks = append(ch.Tasks, name)
			ch.Capacity += app.SoftwareTasks[name].EffectiveCapacity()
		}
		sort.Strings(ch.Tasks)
	}
	return channels
}

func runChannels(st *accumulator) {
	st.channels = PlanChannels(st.app, SpawnEdges(st.app), st.freeQueues)
	for _, ch := range st.channels {
		st.logger.Debug("channel planned",
			"priority", ch.Priority,
			"ceiling", ch.Ceiling.String(),
			"capacity", ch.Capacity,
			"tasks", len(ch.Tasks),
		)
	}
}
