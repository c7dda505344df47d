package loader

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapsched/pkg/core"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestParseYAML_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "empty document",
			doc:     "",
			wantErr: "empty document",
		},
		{
			name:    "unknown field",
			doc:     "name: x\nthreads: 4\n",
			wantErr: "threads",
		},
		{
			name:    "bad access mode",
			doc:     "software_tasks:\n  - name: a\n    priority: 1\n    resources: [{name: x, mode: atomic}]\n",
			wantErr: "unknown access mode",
		},
		{
			name:    "access is a list",
			doc:     "idle:\n  - resources: [[x]]\n",
			wantErr: "resource access must be a string or a mapping",
		},
		{
			name:    "duplicate resource",
			doc:     "resources:\n  - {name: x, type: u8}\n  - {name: x, type: u16}\n",
			wantErr: "resource x declared twice",
		},
		{
			name:    "duplicate task across kinds",
			doc:     "hardware_tasks:\n  - {name: a, priority: 1, binds: EXTI0}\nsoftware_tasks:\n  - {name: a, priority: 1}\n",
			wantErr: "task a declared twice",
		},
		{
			name:    "duplicate init",
			doc:     "init:\n  - core: 0\n  - core: 0\n",
			wantErr: "init on core 0 declared twice",
		},
		{
			name:    "priority out of range",
			doc:     "software_tasks:\n  - {name: a, priority: 300}\n",
			wantErr: "priority 300 out of range",
		},
		{
			name:    "negative capacity",
			doc:     "software_tasks:\n  - {name: a, priority: 1, capacity: -1}\n",
			wantErr: "negative capacity",
		},
		{
			name:    "task without name",
			doc:     "software_tasks:\n  - {priority: 1}\n",
			wantErr: "task without a name",
		},
		{
			name:    "negative core",
			doc:     "idle:\n  - core: -1\n",
			wantErr: "core -1 out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseYAML_ExplicitEmptyClaims(t *testing.T) {
	app, err := ParseYAML([]byte("cores: 2\ninit:\n  - core: 0\n    claims: []\n  - core: 1\n"))
	require.NoError(t, err)

	assert.False(t, app.Inits[0].ClaimsRest)
	assert.Empty(t, app.Inits[0].Claims)
	assert.True(t, app.Inits[1].ClaimsRest)
}

func TestParseHCL_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "syntax error",
			src:     `software_task "a" {`,
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "unknown level",
			src:     "levels = { low = 1 }\nsoftware_task \"a\" { priority = level.high }\n",
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "levels not an object",
			src:     "levels = [1, 2]\n",
			wantErr: "levels must be an object",
		},
		{
			name:    "level not a number",
			src:     "levels = { low = \"one\" }\n",
			wantErr: "level low must be a number",
		},
		{
			name:    "missing priority",
			src:     "software_task \"a\" {}\n",
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "claims not a list",
			src:     "init { claims = 3 }\n",
			wantErr: "init on core 0",
		},
		{
			name:    "unknown block",
			src:     "thread \"a\" {}\n",
			wantErr: "failed to decode HCL file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHCL([]byte(tt.src), "test.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseHCL_LevelExpressions(t *testing.T) {
	src := `
levels = { low = 1, high = 4 }

hardware_task "exti" {
  priority = max(level.low, level.high)
  binds    = "EXTI0"
}

software_task "a" {
  priority = min(level.high, 2)
}
`
	app, err := ParseHCL([]byte(src), "levels.hcl")
	require.NoError(t, err)

	assert.Equal(t, core.Priority(4), app.HardwareTasks["exti"].Prio)
	assert.Equal(t, core.Priority(2), app.SoftwareTasks["a"].Prio)
}

func TestParseHCL_Claims(t *testing.T) {
	src := `
cores = 3

init {
  core   = 0
  claims = []
}

init {
  core   = 1
  claims = null
}

init {
  core   = 2
  claims = ["a", "b"]
}
`
	app, err := ParseHCL([]byte(src), "claims.hcl")
	require.NoError(t, err)

	assert.False(t, app.Inits[0].ClaimsRest)
	assert.Empty(t, app.Inits[0].Claims)
	assert.True(t, app.Inits[1].ClaimsRest)
	assert.Equal(t, []string{"a", "b"}, app.Inits[2].Claims)
}
