package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passGraph builds the dependency shape of the analysis pipeline.
func passGraph(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph()
	for _, id := range []string{"late", "ownership", "location", "channels", "timer-queue", "safety"} {
		g.AddNode(id, nil)
	}
	edges := [][2]string{
		{"late", "location"},
		{"ownership", "location"},
		{"ownership", "channels"},
		{"ownership", "timer-queue"},
		{"late", "safety"},
		{"ownership", "safety"},
		{"channels", "safety"},
		{"timer-queue", "safety"},
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e[0], e[1]))
	}
	return g
}

func TestGraph_AddNodeAndEdge(t *testing.T) {
	g := passGraph(t)

	assert.Equal(t, 6, g.NodeCount())
	assert.Equal(t, 8, g.EdgeCount())
	assert.ElementsMatch(t, []string{"late", "ownership", "channels", "timer-queue"}, g.GetParents("safety"))
	assert.ElementsMatch(t, []string{"location", "channels", "timer-queue", "safety"}, g.GetChildren("ownership"))
}

func TestGraph_AddNode_ReplacesData(t *testing.T) {
	g := NewGraph()
	g.AddNode("late", 1)
	g.AddNode("late", 2)

	assert.Equal(t, 1, g.NodeCount())
	sorted, err := g.TopologicalSort()
	require.NoError(t, err)
	assert.Equal(t, 2, sorted[0].Data)
}

func TestGraph_AddEdge_Errors(t *testing.T) {
	g := NewGraph()
	g.AddNode("late", nil)

	assert.Error(t, g.AddEdge("late", "missing"), "unknown child")
	assert.Error(t, g.AddEdge("missing", "late"), "unknown parent")
	assert.Error(t, g.AddEdge("late", "late"), "self-loop")
}

func TestGraph_AddEdge_Duplicate(t *testing.T) {
	g := NewGraph()
	g.AddNode("ownership", nil)
	g.AddNode("safety", nil)

	require.NoError(t, g.AddEdge("ownership", "safety"))
	require.NoError(t, g.AddEdge("ownership", "safety"))

	assert.Equal(t, 1, g.EdgeCount())
}

func TestGraph_HasCycle(t *testing.T) {
	g := passGraph(t)
	hasCycle, path := g.HasCycle()
	assert.False(t, hasCycle, "unexpected cycle: %v", path)

	require.NoError(t, g.AddEdge("safety", "ownership"))
	hasCycle, path = g.HasCycle()
	assert.True(t, hasCycle)
	assert.NotEmpty(t, path)
}

func TestGraph_TopologicalSort(t *testing.T) {
	g := passGraph(t)

	sorted, err := g.TopologicalSort()
	require.NoError(t, err)
	require.Len(t, sorted, 6)

	pos := make(map[string]int)
	for i, n := range sorted {
		pos[n.ID] = i
	}
	for _, id := range []string{"late", "ownership", "location", "channels", "timer-queue", "safety"} {
		for _, parent := range g.GetParents(id) {
			assert.Less(t, pos[parent], pos[id], "%s must run before %s", parent, id)
		}
	}
	assert.Equal(t, "safety", sorted[len(sorted)-1].ID)
}

func TestGraph_TopologicalSort_Deterministic(t *testing.T) {
	first, err := passGraph(t).TopologicalSort()
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := passGraph(t).TopologicalSort()
		require.NoError(t, err)
		for j := range first {
			assert.Equal(t, first[j].ID, again[j].ID)
		}
	}
}

func TestGraph_TopologicalSort_WithCycle(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", nil)
	g.AddNode("b", nil)
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "a"))

	_, err := g.TopologicalSort()
	assert.ErrorContains(t, err, "cycle detected")

	_, err = g.GetExecutionLevels()
	assert.ErrorContains(t, err, "cycle detected")
}

func TestGraph_GetExecutionLevels(t *testing.T) {
	levels, err := passGraph(t).GetExecutionLevels()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"late", "ownership"},
		{"channels", "location", "timer-queue"},
		{"safety"},
	}, levels)
}

func TestGraph_GetExecutionLevels_Empty(t *testing.T) {
	levels, err := NewGraph().GetExecutionLevels()
	require.NoError(t, err)
	assert.Empty(t, levels)
}
