package loader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapsched/internal/analysis"
	"github.com/leapstack-labs/leapsched/internal/testutil"
	"github.com/leapstack-labs/leapsched/pkg/core"
)

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name        string
		build       func(b *testutil.AppBuilder)
		wantSubject string
		wantMessage string
	}{
		{
			name: "undeclared resource",
			build: func(b *testutil.AppBuilder) {
				b.Software("a", 1).Uses("ghost")
			},
			wantSubject: "task a",
			wantMessage: "accesses undeclared resource ghost",
		},
		{
			name: "spawn of undeclared task",
			build: func(b *testutil.AppBuilder) {
				b.Hardware("irq", 1).Spawns("ghost")
			},
			wantSubject: "task irq",
			wantMessage: "spawns undeclared software task ghost",
		},
		{
			name: "schedule of hardware task",
			build: func(b *testutil.AppBuilder) {
				b.Hardware("irq", 1)
				b.Idle(0).Schedules("irq")
			},
			wantSubject: "idle@0",
			wantMessage: "schedules undeclared software task irq",
		},
		{
			name: "exclusive access from two cores",
			build: func(b *testutil.AppBuilder) {
				b.Resource("x", "u8")
				b.Software("a", 1).Uses("x")
				b.Software("b", 1).OnCore(1).Uses("x")
			},
			wantSubject: "resource x",
			wantMessage: "exclusively accessed from 2 cores",
		},
		{
			name: "mixed access modes",
			build: func(b *testutil.AppBuilder) {
				b.Resource("x", "u8")
				b.Software("a", 1).Uses("x")
				b.Software("b", 2).Reads("x")
			},
			wantSubject: "resource x",
			wantMessage: "accessed both exclusively and shared",
		},
		{
			name: "late resource accessed from init",
			build: func(b *testutil.AppBuilder) {
				b.Late("x", "u8")
				b.Init(0).Uses("x").ClaimsRest()
				b.Init(1).Claims()
			},
			wantSubject: "init@0",
			wantMessage: "accesses late resource x before it is initialized",
		},
		{
			name: "duplicate interrupt binding",
			build: func(b *testutil.AppBuilder) {
				b.Hardware("a", 1).Binds("EXTI0")
				b.Hardware("b", 2).Binds("EXTI0")
			},
			wantSubject: "interrupt EXTI0",
			wantMessage: "bound by several tasks: [a b]",
		},
		{
			name: "unbound hardware task",
			build: func(b *testutil.AppBuilder) {
				b.Hardware("a", 1).Binds("")
			},
			wantSubject: "task a",
			wantMessage: "not bound to an interrupt",
		},
		{
			name: "task at idle priority",
			build: func(b *testutil.AppBuilder) {
				b.Software("a", 0)
			},
			wantSubject: "task a",
			wantMessage: "priority 0 is reserved for idle",
		},
		{
			name: "core out of range",
			build: func(b *testutil.AppBuilder) {
				b.Software("a", 1).OnCore(2)
			},
			wantSubject: "task a",
			wantMessage: "core 2 does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testutil.NewApp(2)
			b.Init(1).ClaimsRest()
			tt.build(b)

			_, err := Validate(b.Build())
			require.Error(t, err)

			var found bool
			for _, d := range diagnosticsOf(err) {
				if d.Subject == tt.wantSubject {
					assert.Contains(t, d.Message, tt.wantMessage)
					assert.Equal(t, core.SeverityError, d.Severity)
					found = true
				}
			}
			assert.True(t, found, "no diagnostic for %s in %v", tt.wantSubject, err)
		})
	}
}

func TestValidate_LateClaims(t *testing.T) {
	b := testutil.NewApp(2)
	b.Late("a", "A").Late("b", "B")
	b.Init(0).Claims("a", "c")
	b.Init(1).Claims()
	b.Software("t", 1).Uses("a", "b")

	_, err := Validate(b.Build())
	require.Error(t, err)
	assert.ErrorIs(t, err, analysis.ErrUnclaimed)
	assert.ErrorIs(t, err, analysis.ErrNotLate)
}

func TestValidate_InitMayShareAnyMode(t *testing.T) {
	b := testutil.NewApp(1)
	b.Resource("cfg", "Config")
	b.Init(0).Uses("cfg")
	b.Software("a", 1).Reads("cfg")
	b.Software("b", 2).Reads("cfg")
	b.Idle(0).Spawns("a", "b")

	warnings, err := Validate(b.Build())
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestValidate_Warnings(t *testing.T) {
	b := testutil.NewApp(1)
	b.Resource("unused", "u8").Resource("used", "u8")
	b.Software("orphan", 1).Uses("used")

	warnings, err := Validate(b.Build())
	require.NoError(t, err)
	assert.Equal(t, []core.Diagnostic{
		{Severity: core.SeverityWarning, Subject: "resource unused", Message: "declared but never accessed"},
		{Severity: core.SeverityWarning, Subject: "task orphan", Message: "never spawned or scheduled"},
	}, warnings)
}

// diagnosticsOf unwraps the diagnostics joined into err.
func diagnosticsOf(err error) []core.Diagnostic {
	var out []core.Diagnostic
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return out
	}
	for _, e := range joined.Unwrap() {
		var d core.Diagnostic
		if errors.As(e, &d) {
			out = append(out, d)
		}
	}
	return out
}
