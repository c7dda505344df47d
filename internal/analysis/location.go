package analysis

import (
	"sort"

	"github.com/leapstack-labs/leapsched/pkg/core"
)

func init() {
	register(PassDef{
		ID:          "location",
		Description: "Record the owning core of each resource",
		Requires:    []string{"late", "ownership"},
		Run:         runLocation,
	})
}

// runLocation places every resource that has an ownership. Only the owning
// core is resolved here; arbitration between cores is not modeled.
func runLocation(st *accumulator) {
	cores := make(map[string]map[core.Core]bool)
	for _, t := range AccessTuples(st.app) {
		if !t.Priority.IsSet() {
			continue
		}
		if cores[t.Resource] == nil {
			cores[t.Resource] = make(map[core.Core]bool)
		}
		cores[t.Resource][t.Core] = true
	}

	for name := range st.ownerships {
		loc := core.Location{}
		for c := range cores[name] {
			loc.Cores = append(loc.Cores, c)
		}
		sort.Slice(loc.Cores, func(i, j int) bool { return loc.Cores[i] < loc.Cores[j] })
		if len(loc.Cores) > 0 {
			loc.Core = loc.Cores[0]
		}
		loc.Shared = len(loc.Cores) > 1

		if res := st.app.Resources[name]; res != nil && res.Late {
			if initCore, ok := initializer(st.late, name); ok && initCore != loc.Core {
				loc.CrossInitialized = true
			}
		}
		st.locations[name] = loc
	}
}

func initializer(late map[core.Core][]string, resource string) (core.Core, bool) {
	for c, names := range late {
		for _, n := range names {
			if n == resource {
				return c, true
			}
		}
	}
	return 0, false
}
