package analysis

import (
	"fmt"
	"sort"
	"sync"

	"github.com/leapstack-labs/leapsched/internal/dag"
)

// globalRegistry holds every analysis pass, keyed by ID.
var globalRegistry = &Registry{
	passes: make(map[string]PassDef),
}

// Registry stores registered analysis passes.
type Registry struct {
	mu     sync.RWMutex
	passes map[string]PassDef
}

// PassDef describes one analysis pass.
type PassDef struct {
	ID          string   // Unique identifier, e.g., "ownership"
	Description string   // Human-readable description
	Requires    []string // IDs of passes whose results this pass reads
	Run         func(st *accumulator)
}

// register adds a pass to the global registry.
// Call this from init() functions in pass files.
func register(pass PassDef) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	if _, dup := globalRegistry.passes[pass.ID]; dup {
		panic(fmt.Sprintf("analysis: pass %q registered twice", pass.ID))
	}
	globalRegistry.passes[pass.ID] = pass
}

// Passes returns all registered passes sorted by ID.
func Passes() []PassDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	passes := make([]PassDef, 0, len(globalRegistry.passes))
	for _, p := range globalRegistry.passes {
		passes = append(passes, p)
	}
	sort.Slice(passes, func(i, j int) bool { return passes[i].ID < passes[j].ID })
	return passes
}

// Graph returns the pass dependency graph. Node data is the PassDef.
func Graph() (*dag.Graph, error) {
	passes := Passes()
	g := dag.NewGraph()
	for _, p := range passes {
		g.AddNode(p.ID, p)
	}
	for _, p := range passes {
		for _, req := range p.Requires {
			if err := g.AddEdge(req, p.ID); err != nil {
				return nil, fmt.Errorf("pass %s: %w", p.ID, err)
			}
		}
	}
	return g, nil
}

// Plan returns the passes in execution order.
func Plan() ([]PassDef, error) {
	g, err := Graph()
	if err != nil {
		return nil, err
	}
	nodes, err := g.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("ordering analysis passes: %w", err)
	}
	plan := make([]PassDef, 0, len(nodes))
	for _, n := range nodes {
		plan = append(plan, n.Data.(PassDef))
	}
	return plan, nil
}
