package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("app", "", "")
	flags.String("state", "", "")
	flags.StringP("output", "o", "", "")
	flags.String("log-level", "", "")
	flags.BoolP("verbose", "v", false, "")
	return flags
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "leapsched.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(dir, "app.yaml"), cfg.App)
	assert.Equal(t, filepath.Join(dir, ".leapsched", "state.db"), cfg.StatePath)
	assert.Equal(t, 200*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.False(t, cfg.FailOnWarnings)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	path := writeConfig(t, dir, `app: firmware/app.hcl
state_path: ":memory:"
fail_on_warnings: true
output: json
watch:
  debounce: 1s
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, filepath.Join(dir, "firmware", "app.hcl"), cfg.App)
	assert.Equal(t, ":memory:", cfg.StatePath)
	assert.True(t, cfg.FailOnWarnings)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
}

func TestLoadConfig_DiscoversFileUpward(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	writeConfig(t, root, "app: app.hcl\n")
	nested := filepath.Join(root, "src", "tasks")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, "app.hcl"), cfg.App)
}

func TestLoadConfig_Precedence(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		flags     map[string]string
		wantLevel string
		wantOut   string
	}{
		{
			name:      "file only",
			wantLevel: "info",
			wantOut:   "markdown",
		},
		{
			name:      "env overrides file",
			env:       map[string]string{"LEAPSCHED_LOG_LEVEL": "error"},
			wantLevel: "error",
			wantOut:   "markdown",
		},
		{
			name:      "flag overrides env",
			env:       map[string]string{"LEAPSCHED_LOG_LEVEL": "error", "LEAPSCHED_OUTPUT": "text"},
			flags:     map[string]string{"log-level": "debug"},
			wantLevel: "debug",
			wantOut:   "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			path := writeConfig(t, t.TempDir(), "log_level: info\noutput: markdown\n")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			flags := newFlagSet()
			for k, v := range tt.flags {
				require.NoError(t, flags.Set(k, v))
			}

			cfg, err := LoadConfig(path, flags)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, cfg.LogLevel)
			assert.Equal(t, tt.wantOut, cfg.OutputFormat)
		})
	}
}

func TestLoadConfig_NestedEnv(t *testing.T) {
	ResetConfig()
	t.Setenv("LEAPSCHED_WATCH__DEBOUNCE", "750ms")

	cfg, err := LoadConfig(writeConfig(t, t.TempDir(), ""), nil)
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoadConfig_FlagPathsRelativeToCWD(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	path := writeConfig(t, root, "app: app.yaml\n")
	cwd := t.TempDir()
	t.Chdir(cwd)

	flags := newFlagSet()
	require.NoError(t, flags.Set("app", "other.hcl"))
	require.NoError(t, flags.Set("state", "run.db"))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "other.hcl"), cfg.App)
	assert.Equal(t, filepath.Join(cwd, "run.db"), cfg.StatePath)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{
			name:      "bad output",
			content:   "output: html\n",
			errSubstr: "invalid output format",
		},
		{
			name:      "bad log level",
			content:   "log_level: loud\n",
			errSubstr: "unknown log level",
		},
		{
			name:      "bad debounce",
			content:   "watch:\n  debounce: soon\n",
			errSubstr: "unable to decode config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfig(t, t.TempDir(), tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestValidateApp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.App = filepath.Join(t.TempDir(), "missing.yaml")

	err := cfg.ValidateApp()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "application file does not exist")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.LogFormat = "json"
	cfg.Verbose = true

	logger, err := NewLogger(&buf, cfg)
	require.NoError(t, err)
	logger.Debug("hello", slog.String("k", "v"))
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	cfg.LogFormat = "xml"
	_, err = NewLogger(&buf, cfg)
	require.Error(t, err)
}

func TestGetLogger(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract
	assert.NotNil(t, GetLogger(nil))

	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
