package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(mode Mode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeAuto},
		{in: "auto", want: ModeAuto},
		{in: "TEXT", want: ModeText},
		{in: " markdown ", want: ModeMarkdown},
		{in: "json", want: ModeJSON},
		{in: "html", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderer_EffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{name: "auto on terminal", mode: ModeAuto, isTTY: true, want: ModeText},
		{name: "auto piped", mode: ModeAuto, isTTY: false, want: ModeMarkdown},
		{name: "empty means auto", mode: "", isTTY: false, want: ModeMarkdown},
		{name: "explicit text piped", mode: ModeText, isTTY: false, want: ModeText},
		{name: "json on terminal", mode: ModeJSON, isTTY: true, want: ModeJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
			assert.Equal(t, tt.isTTY, r.IsTTY())
		})
	}
}

func TestRenderer_NonTerminalWriter(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_Markdown(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeMarkdown, false)

	r.Header(1, "Analysis")
	r.Success("done")
	r.StatusLine("counter", "success", "owned(1)")
	r.Warning("unused resource")
	r.Error("broken")

	got := out.String()
	assert.Contains(t, got, "# Analysis\n")
	assert.Contains(t, got, "**OK**: done")
	assert.Contains(t, got, "- counter: success (owned(1))")
	assert.Contains(t, errOut.String(), "**WARN**: unused resource")
	assert.Contains(t, errOut.String(), "**ERROR**: broken")
	assert.NotContains(t, got+errOut.String(), "\x1b[")
}

func TestRenderer_TextWithoutTerminalHasNoEscapes(t *testing.T) {
	r, out, _ := newTestRenderer(ModeText, false)

	r.Header(2, "Resources")
	r.Success("ok")
	r.StatusLine("x", "failed", "")

	assert.Contains(t, out.String(), "Resources")
	assert.Contains(t, out.String(), "✓ ok")
	assert.Contains(t, out.String(), "✗ x")
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestRenderer_Table(t *testing.T) {
	header := table.Row{"Resource", "Ownership"}
	rows := []table.Row{{"counter", "contended(3)"}, {"buffer", "owned(1)"}}

	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeMarkdown, false)
		r.Table(header, rows)
		assert.Contains(t, out.String(), "| Resource | Ownership |")
		assert.Contains(t, out.String(), "| counter | contended(3) |")
	})

	t.Run("text", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText, false)
		r.Table(header, rows)
		assert.Contains(t, out.String(), "┌")
		assert.Contains(t, out.String(), "counter")
	})
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)
	require.NoError(t, r.JSON(map[string]int{"channels": 2}))

	var got map[string]int
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 2, got["channels"])
	assert.Contains(t, out.String(), "\n  \"channels\"")
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "## Channels", FormatHeader(2, "Channels"))
	assert.Equal(t, "# Top", FormatHeader(0, "Top"))
	assert.Equal(t, "- **Ceiling**: 3", FormatKeyValue("Ceiling", "3"))
	assert.Equal(t, "```yaml\na: 1\n```", FormatCodeBlock("yaml", "a: 1\n"))
	assert.Equal(t, "-", FormatList(nil))
	assert.Equal(t, "a, b", FormatList([]string{"a", "b"}))
	assert.Equal(t, "Contended", Title("contended"))
}
