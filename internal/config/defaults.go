package config

import "time"

// Default configuration values.
const (
	DefaultAppFile       = "app.yaml"
	DefaultStateFile     = ".leapsched/state.db"
	DefaultWatchDebounce = 200 * time.Millisecond
)

// Defaults returns the default project settings keyed like leapsched.yaml.
func Defaults() map[string]any {
	return map[string]any{
		"app":              DefaultAppFile,
		"state_path":       DefaultStateFile,
		"fail_on_warnings": false,
		"watch.debounce":   DefaultWatchDebounce.String(),
	}
}

// ApplyDefaults fills unset fields of a ProjectConfig.
func ApplyDefaults(c *ProjectConfig) {
	if c == nil {
		return
	}
	if c.App == "" {
		c.App = DefaultAppFile
	}
	if c.StatePath == "" {
		c.StatePath = DefaultStateFile
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = DefaultWatchDebounce
	}
}
