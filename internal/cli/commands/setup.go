package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leapsched/internal/analysis"
	"github.com/leapstack-labs/leapsched/internal/cli/config"
	"github.com/leapstack-labs/leapsched/internal/cli/output"
	"github.com/leapstack-labs/leapsched/internal/loader"
	"github.com/leapstack-labs/leapsched/internal/state"
	"github.com/leapstack-labs/leapsched/pkg/core"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Loader   *loader.Loader
	Analyzer *analysis.Analyzer
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with loader, analyzer and renderer.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Loader:   loader.New(loader.Config{Logger: logger}),
		Analyzer: analysis.New(analysis.Config{Logger: logger}),
		Renderer: r,
	}
}

// AppPath returns the application file to operate on: the first positional
// argument if given, otherwise the configured app.
func (c *CommandContext) AppPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return c.Cfg.App
}

// Loaded is a validated application together with its warnings.
type Loaded struct {
	Path     string
	App      *core.App
	Warnings []core.Diagnostic
}

// LoadApp reads and validates the application at path. Validation errors are
// returned as a *ValidationError carrying every diagnostic.
func (c *CommandContext) LoadApp(path string) (*Loaded, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("application file does not exist: %s\nHint: pass the file as an argument or use --app to specify a different path", path)
	}

	app, err := c.Loader.Load(path)
	if err != nil {
		return nil, err
	}

	warnings, err := loader.Validate(app)
	if err != nil {
		return nil, &ValidationError{App: app.Name, Err: err}
	}

	c.Logger.Debug("application validated",
		slog.String("app", app.Name),
		slog.Int("warnings", len(warnings)))
	return &Loaded{Path: path, App: app, Warnings: warnings}, nil
}

// OpenStore opens the snapshot store at the configured state path.
// Returns the store and a cleanup function that must be called (typically via defer).
func (c *CommandContext) OpenStore() (*state.SQLiteStore, func(), error) {
	store := state.NewSQLiteStore(c.Logger)
	if err := store.Open(c.Cfg.StatePath); err != nil {
		return nil, nil, fmt.Errorf("failed to open state store %s: %w", c.Cfg.StatePath, err)
	}
	return store, func() { _ = store.Close() }, nil
}

// ValidationError reports an application that failed validation.
type ValidationError struct {
	App string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("application %s is invalid:\n%v", e.App, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Diagnostics returns the individual diagnostics joined into the error.
// Errors that are not diagnostics, such as late claim conflicts, are
// reported against the late resources.
func (e *ValidationError) Diagnostics() []core.Diagnostic {
	var out []core.Diagnostic
	for _, err := range flatten(e.Err) {
		var d core.Diagnostic
		if errors.As(err, &d) {
			out = append(out, d)
			continue
		}
		out = append(out, core.Diagnostic{Severity: core.SeverityError, Subject: "late resources", Message: err.Error()})
	}
	return out
}

func flatten(err error) []error {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, flatten(e)...)
	}
	return out
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to defaults.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	cfg := config.DefaultConfig()
	if v := os.Getenv("LEAPSCHED_APP"); v != "" {
		cfg.App = v
	}
	if v := os.Getenv("LEAPSCHED_STATE_PATH"); v != "" {
		cfg.StatePath = v
	}
	if v := os.Getenv("LEAPSCHED_OUTPUT"); v != "" {
		cfg.OutputFormat = v
	}
	cfg.ProjectRoot, _ = filepath.Abs(".")
	return cfg
}

func diagnosticInfos(ds []core.Diagnostic) []output.DiagnosticInfo {
	out := make([]output.DiagnosticInfo, 0, len(ds))
	for _, d := range ds {
		out = append(out, output.DiagnosticInfo{
			Severity: d.Severity.String(),
			Subject:  d.Subject,
			Message:  d.Message,
		})
	}
	return out
}
