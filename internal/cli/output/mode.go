// Package output renders command results for terminals, pipes and machines.
//
// A Renderer picks one of three concrete modes. Auto resolves to styled text
// on a terminal and to markdown when output is piped, so scripts and agents
// get stable, uncolored text without asking for it.
package output

import (
	"fmt"
	"strings"
)

// Mode selects how command output is rendered.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Modes lists every accepted mode, used for flag completion.
var Modes = []string{string(ModeAuto), string(ModeText), string(ModeMarkdown), string(ModeJSON)}

// ParseMode converts a flag value into a Mode. The empty string means auto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeText, ModeMarkdown, ModeJSON:
		return m, nil
	default:
		return "", fmt.Errorf("unknown output mode %q (valid: %s)", s, strings.Join(Modes, ", "))
	}
}
