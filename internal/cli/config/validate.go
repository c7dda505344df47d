package config

import (
	"fmt"
	"os"
	"strings"
)

var validOutputs = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.App == "" {
		return fmt.Errorf("app is required")
	}

	output := strings.ToLower(c.OutputFormat)
	valid := output == ""
	for _, v := range validOutputs {
		if output == v {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("invalid output format %q (valid: %s)", c.OutputFormat, strings.Join(validOutputs, ", "))
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ValidateApp checks that the application file exists.
func (c *Config) ValidateApp() error {
	if _, err := os.Stat(c.App); os.IsNotExist(err) {
		return fmt.Errorf("application file does not exist: %s\nHint: pass the file as an argument or use --app to specify a different path", c.App)
	}
	return nil
}
