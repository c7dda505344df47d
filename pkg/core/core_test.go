package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalPriority(t *testing.T) {
	none := NoPriority()
	_, ok := none.Get()
	assert.False(t, ok, "init has no priority")
	assert.Equal(t, "-", none.String())

	zero := PriorityOf(0)
	p, ok := zero.Get()
	assert.True(t, ok, "priority 0 is a real priority")
	assert.Equal(t, Priority(0), p)
	assert.NotEqual(t, none, zero)

	assert.Equal(t, PriorityOf(3), none.Max(3))
	assert.Equal(t, PriorityOf(3), PriorityOf(3).Max(2))
	assert.Equal(t, PriorityOf(4), PriorityOf(3).Max(4))
}

func TestOptionalPriority_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(map[string]OptionalPriority{"a": PriorityOf(2), "b": NoPriority()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 2, "b": null}`, string(out))
}

func TestOwnership_NeedsLock(t *testing.T) {
	tests := []struct {
		name      string
		ownership Ownership
		priority  Priority
		want      bool
	}{
		{"owned never locks", OwnedBy(1), 1, false},
		{"co-owned never locks", CoOwnedBy(2), 2, false},
		{"contended below ceiling", ContendedAt(2), 1, true},
		{"contended at ceiling", ContendedAt(2), 2, false},
		{"contended from idle", ContendedAt(3), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ownership.NeedsLock(tt.priority))
		})
	}
}

func TestOwnership_Ceiling(t *testing.T) {
	c, ok := ContendedAt(5).Ceiling()
	assert.True(t, ok)
	assert.Equal(t, Priority(5), c)

	_, ok = CoOwnedBy(5).Ceiling()
	assert.False(t, ok)

	assert.True(t, OwnedBy(0).IsIdleOwned())
	assert.False(t, CoOwnedBy(0).IsIdleOwned())
	assert.Equal(t, "contended(5)", ContendedAt(5).String())
}

func TestContextKinds(t *testing.T) {
	boot := NewInit(1, nil, nil, nil)
	idle := NewIdle(1, nil, nil, nil)
	hw := NewHardwareTask("uart0", 0, 3, "UART0")
	sw := NewSoftwareTask("worker", 0, 1, 0, "u32")

	tests := []struct {
		ctx      Context
		kind     ContextKind
		label    string
		priority OptionalPriority
	}{
		{boot, KindInit, "init@1", NoPriority()},
		{idle, KindIdle, "idle@1", PriorityOf(0)},
		{hw, KindHardwareTask, "task uart0", PriorityOf(3)},
		{sw, KindSoftwareTask, "task worker", PriorityOf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.ctx.Kind())
			assert.Equal(t, tt.label, Label(tt.ctx))
			assert.Equal(t, tt.priority, tt.ctx.Priority())
		})
	}

	assert.Equal(t, uint(DefaultCapacity), sw.EffectiveCapacity())
	sw.Capacity = 4
	assert.Equal(t, uint(4), sw.EffectiveCapacity())
}

func TestApp_ContextsOrder(t *testing.T) {
	app := NewApp("demo", 2)
	app.AddContext(NewSoftwareTask("b", 0, 1, 0))
	app.AddContext(NewSoftwareTask("a", 0, 1, 0))
	app.AddContext(NewHardwareTask("z", 1, 2, "EXTI0"))
	app.AddContext(NewIdle(1, nil, nil, nil))
	app.AddContext(NewInit(1, nil, nil, nil))
	app.AddContext(NewInit(0, nil, nil, nil))

	var labels []string
	for _, c := range app.Contexts() {
		labels = append(labels, Label(c))
	}
	assert.Equal(t, []string{"init@0", "init@1", "idle@1", "task z", "task a", "task b"}, labels)

	task, ok := app.Task("z")
	require.True(t, ok)
	assert.Equal(t, KindHardwareTask, task.Kind())

	_, ok = app.Task("missing")
	assert.False(t, ok)
}

func TestApp_LateResources(t *testing.T) {
	app := NewApp("demo", 1)
	app.AddResource(&Resource{Name: "b", Type: "u8", Late: true})
	app.AddResource(&Resource{Name: "a", Type: "u8", Late: true})
	app.AddResource(&Resource{Name: "c", Type: "u8"})

	assert.Equal(t, []string{"a", "b"}, app.LateResources())
	assert.Equal(t, []string{"a", "b", "c"}, app.ResourceNames())
}

func TestParseAccessMode(t *testing.T) {
	m, err := ParseAccessMode("shared")
	require.NoError(t, err)
	assert.Equal(t, Shared, m)

	m, err = ParseAccessMode("")
	require.NoError(t, err)
	assert.Equal(t, Exclusive, m)

	_, err = ParseAccessMode("bogus")
	assert.Error(t, err)
}
