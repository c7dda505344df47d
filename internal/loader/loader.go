package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leapsched/pkg/core"
)

// Format identifies an application file format.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// FormatOf infers the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("unsupported application file %s: expected .yaml, .yml or .hcl", path)
	}
}

// Config holds loader configuration.
type Config struct {
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Loader reads application files.
type Loader struct {
	logger *slog.Logger
}

// New creates a loader.
func New(cfg Config) *Loader {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{logger: logger}
}

// Load reads and decodes the application file at path. The application name
// defaults to the file name without extension.
func (l *Loader) Load(path string) (*core.App, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by the user
	if err != nil {
		return nil, fmt.Errorf("failed to read application file: %w", err)
	}

	app, err := l.Parse(data, format, path)
	if err != nil {
		return nil, err
	}
	if app.Name == "" {
		app.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return app, nil
}

// Parse decodes application data in the given format.
func (l *Loader) Parse(data []byte, format Format, filename string) (*core.App, error) {
	var (
		app *core.App
		err error
	)
	switch format {
	case FormatYAML:
		app, err = ParseYAML(data)
	case FormatHCL:
		app, err = ParseHCL(data, filename)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}

	l.logger.Debug("application loaded",
		"file", filename,
		"format", string(format),
		"cores", app.Cores,
		"resources", len(app.Resources),
		"hardware_tasks", len(app.HardwareTasks),
		"software_tasks", len(app.SoftwareTasks),
	)
	return app, nil
}
