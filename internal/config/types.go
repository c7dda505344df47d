// Package config provides shared configuration types for leapsched.
// This package is decoupled from CLI concerns so other frontends can load
// project configuration the same way.
package config

import "time"

// WatchConfig holds settings for re-analysis on file changes.
type WatchConfig struct {
	// Debounce is how long to wait after the last change before re-running.
	Debounce time.Duration `koanf:"debounce"`
}

// ProjectConfig holds the project-level configuration found in leapsched.yaml.
type ProjectConfig struct {
	// App is the application file to analyze (.yaml, .yml or .hcl).
	App       string `koanf:"app"`
	StatePath string `koanf:"state_path"`
	// FailOnWarnings turns validation warnings into errors.
	FailOnWarnings bool        `koanf:"fail_on_warnings"`
	Watch          WatchConfig `koanf:"watch"`
}
