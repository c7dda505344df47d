package commands

import (
	"sort"

	"github.com/leapstack-labs/leapsched/internal/cli/output"
	"github.com/leapstack-labs/leapsched/pkg/core"
)

// buildReport converts an analysis into its rendered form.
func buildReport(app *core.App, a *core.Analysis, warnings []core.Diagnostic) output.AnalysisOutput {
	out := output.AnalysisOutput{
		App:       app.Name,
		Cores:     app.Cores,
		Late:      make([]output.LateInfo, 0, len(a.LateResources)),
		Resources: resourceInfos(app, a),
		Channels:  make([]output.ChannelInfo, 0, len(a.Channels)),
		SendTypes: a.SendTypes.Sorted(),
		SyncTypes: a.SyncTypes.Sorted(),
		Warnings:  diagnosticInfos(warnings),
	}

	cores := make([]core.Core, 0, len(a.LateResources))
	for c := range a.LateResources {
		cores = append(cores, c)
	}
	sort.Slice(cores, func(i, j int) bool { return cores[i] < cores[j] })
	for _, c := range cores {
		out.Late = append(out.Late, output.LateInfo{Core: c, Resources: a.LateResources[c]})
	}

	for _, p := range a.ChannelPriorities() {
		ch := a.Channels[p]
		out.Channels = append(out.Channels, output.ChannelInfo{
			Priority: ch.Priority,
			Ceiling:  ch.Ceiling,
			Capacity: ch.Capacity,
			Tasks:    ch.Tasks,
		})
	}

	tasks := make([]string, 0, len(a.FreeQueues))
	for name := range a.FreeQueues {
		tasks = append(tasks, name)
	}
	sort.Strings(tasks)
	out.FreeQueues = make([]output.FreeQueueInfo, 0, len(tasks))
	for _, name := range tasks {
		out.FreeQueues = append(out.FreeQueues, output.FreeQueueInfo{Task: name, Ceiling: a.FreeQueues[name]})
	}

	tq := a.TimerQueue
	out.TimerQueue = output.TimerQueueInfo{
		Priority: tq.Priority,
		Ceiling:  tq.Ceiling,
		Capacity: tq.Capacity,
		Tasks:    nonNilStrings(tq.Tasks),
		Empty:    tq.Empty(),
	}
	return out
}

// resourceInfos lists every resource with an ownership, sorted by name.
func resourceInfos(app *core.App, a *core.Analysis) []output.ResourceInfo {
	out := make([]output.ResourceInfo, 0, len(app.Resources))
	for _, name := range app.ResourceNames() {
		res := app.Resources[name]
		o, ok := a.Ownerships[name]
		if !ok {
			continue
		}
		loc := a.Locations[name]

		info := output.ResourceInfo{
			Name:             name,
			Type:             res.Type,
			Late:             res.Late,
			Ownership:        o.String(),
			Core:             loc.Core,
			Cores:            loc.Cores,
			Shared:           loc.Shared,
			CrossInitialized: loc.CrossInitialized,
			LockedBy:         lockers(app, a, name),
		}
		if ceiling, ok := o.Ceiling(); ok {
			info.Ceiling = &ceiling
		}
		out = append(out, info)
	}
	return out
}

// lockers returns the labels of contexts that must lock resource, sorted.
func lockers(app *core.App, a *core.Analysis, resource string) []string {
	out := []string{}
	for _, ctx := range app.Contexts() {
		p, ok := ctx.Priority().Get()
		if !ok {
			continue
		}
		for _, access := range ctx.Accesses() {
			if access.Resource == resource && a.NeedsLock(resource, p) {
				out = append(out, core.Label(ctx))
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
