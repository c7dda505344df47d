package analysis

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapsched/pkg/core"
)

func TestStep(t *testing.T) {
	tests := []struct {
		name          string
		current       core.Ownership
		seen          bool
		prio          core.Priority
		want          core.Ownership
		wantContended bool
	}{
		{"first access", core.Ownership{}, false, 3, core.OwnedBy(3), false},
		{"first access by idle", core.Ownership{}, false, 0, core.OwnedBy(0), false},
		{"same priority co-owns", core.OwnedBy(2), true, 2, core.CoOwnedBy(2), false},
		{"co-owned stays", core.CoOwnedBy(2), true, 2, core.CoOwnedBy(2), false},
		{"higher priority contends", core.OwnedBy(1), true, 2, core.ContendedAt(2), true},
		{"lower priority contends", core.OwnedBy(3), true, 1, core.ContendedAt(3), true},
		{"co-owned contends", core.CoOwnedBy(1), true, 4, core.ContendedAt(4), true},
		{"contended raises ceiling", core.ContendedAt(2), true, 5, core.ContendedAt(5), true},
		{"contended keeps ceiling", core.ContendedAt(5), true, 3, core.ContendedAt(5), true},
		{"access at ceiling", core.ContendedAt(5), true, 5, core.ContendedAt(5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, contended := Step(tt.current, tt.seen, tt.prio)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantContended, contended)
		})
	}
}

func typeOfX(string) string { return "X" }

func tuple(p core.Priority, mode core.AccessMode) AccessTuple {
	return AccessTuple{Priority: core.PriorityOf(p), Resource: "x", Mode: mode}
}

func TestOwnershipFold_IgnoresInit(t *testing.T) {
	fold := NewOwnershipFold(typeOfX)
	fold.Add(AccessTuple{Priority: core.NoPriority(), Resource: "x", Mode: core.Exclusive})
	assert.Empty(t, fold.Ownerships())

	fold.Add(tuple(0, core.Exclusive))
	fold.Add(AccessTuple{Priority: core.NoPriority(), Resource: "x", Mode: core.Shared})
	assert.Equal(t, core.OwnedBy(0), fold.Ownerships()["x"])
	assert.Empty(t, fold.SyncTypes())
}

func TestOwnershipFold_SharedContentionIsSync(t *testing.T) {
	tests := []struct {
		name     string
		tuples   []AccessTuple
		wantSync bool
	}{
		{"shared at two priorities", []AccessTuple{tuple(1, core.Shared), tuple(2, core.Shared)}, true},
		{"shared at one priority", []AccessTuple{tuple(1, core.Shared), tuple(1, core.Shared)}, false},
		{"exclusive contention", []AccessTuple{tuple(1, core.Exclusive), tuple(2, core.Exclusive)}, false},
		{"shared access at the ceiling", []AccessTuple{tuple(1, core.Shared), tuple(3, core.Shared), tuple(3, core.Shared)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fold := NewOwnershipFold(typeOfX)
			for _, tp := range tt.tuples {
				fold.Add(tp)
			}
			assert.Equal(t, tt.wantSync, fold.SyncTypes().Has("X"))
		})
	}
}

func TestOwnershipFold_Monotonic(t *testing.T) {
	fold := NewOwnershipFold(typeOfX)
	prios := []core.Priority{2, 1, 2, 4, 3, 1, 4, 0}

	var ceiling core.Priority
	contended := false
	for _, p := range prios {
		fold.Add(tuple(p, core.Exclusive))
		o := fold.Ownerships()["x"]
		if contended {
			require.Equal(t, core.Contended, o.Kind, "contended resource reverted after priority %d", p)
			require.GreaterOrEqual(t, o.Priority, ceiling)
		}
		if o.Kind == core.Contended {
			contended = true
			ceiling = o.Priority
		}
	}
	assert.Equal(t, core.ContendedAt(4), fold.Ownerships()["x"])
}

func TestOwnershipFold_OrderIndependent(t *testing.T) {
	tuples := []AccessTuple{
		{Priority: core.PriorityOf(1), Resource: "a", Mode: core.Shared},
		{Priority: core.PriorityOf(3), Resource: "a", Mode: core.Shared},
		{Priority: core.PriorityOf(2), Resource: "b", Mode: core.Exclusive},
		{Priority: core.PriorityOf(2), Resource: "b", Mode: core.Exclusive},
		{Priority: core.PriorityOf(0), Resource: "c", Mode: core.Exclusive},
		{Priority: core.NoPriority(), Resource: "c", Mode: core.Exclusive},
		{Priority: core.PriorityOf(1), Resource: "d", Mode: core.Exclusive},
		{Priority: core.PriorityOf(5), Resource: "d", Mode: core.Exclusive},
		{Priority: core.PriorityOf(3), Resource: "d", Mode: core.Exclusive},
	}
	typeOf := func(name string) string { return "T" + name }

	reference := NewOwnershipFold(typeOf)
	for _, tp := range tuples {
		reference.Add(tp)
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		shuffled := append([]AccessTuple(nil), tuples...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		fold := NewOwnershipFold(typeOf)
		for _, tp := range shuffled {
			fold.Add(tp)
		}
		require.Equal(t, reference.Ownerships(), fold.Ownerships())
		require.Equal(t, reference.SyncTypes(), fold.SyncTypes())
	}

	assert.Equal(t, map[string]core.Ownership{
		"a": core.ContendedAt(3),
		"b": core.CoOwnedBy(2),
		"c": core.OwnedBy(0),
		"d": core.ContendedAt(5),
	}, reference.Ownerships())
	assert.Equal(t, []string{"Ta"}, reference.SyncTypes().Sorted())
}
