package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Resource highlights resource and task names.
	Resource lipgloss.Style
	// Priority highlights priorities and ceilings.
	Priority lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
	StatusSkipped lipgloss.Style
}

// newStyles builds the style set against a lipgloss renderer, so the color
// profile of the destination writer decides whether escapes are emitted.
func newStyles(lr *lipgloss.Renderer) *Styles {
	green := lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#3fb950"}
	red := lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f85149"}
	yellow := lipgloss.AdaptiveColor{Light: "#9a6700", Dark: "#d29922"}
	blue := lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#58a6ff"}
	gray := lipgloss.AdaptiveColor{Light: "#6e7781", Dark: "#8b949e"}
	purple := lipgloss.AdaptiveColor{Light: "#8250df", Dark: "#bc8cff"}

	return &Styles{
		Header1: lr.NewStyle().Bold(true).Foreground(blue).MarginBottom(1),
		Header2: lr.NewStyle().Bold(true).Foreground(blue),
		Bold:    lr.NewStyle().Bold(true),
		Muted:   lr.NewStyle().Foreground(gray),

		Success: lr.NewStyle().Foreground(green),
		Error:   lr.NewStyle().Foreground(red),
		Warning: lr.NewStyle().Foreground(yellow),
		Info:    lr.NewStyle().Foreground(blue),

		Resource: lr.NewStyle().Foreground(purple),
		Priority: lr.NewStyle().Bold(true).Foreground(yellow),

		StatusSuccess: lr.NewStyle().Foreground(green).SetString("✓"),
		StatusFailed:  lr.NewStyle().Foreground(red).SetString("✗"),
		StatusSkipped: lr.NewStyle().Foreground(gray).SetString("○"),
	}
}
