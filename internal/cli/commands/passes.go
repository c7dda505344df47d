package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapsched/internal/analysis"
	"github.com/leapstack-labs/leapsched/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewPassesCommand creates the passes command.
func NewPassesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passes",
		Short: "Show the analysis passes and their order",
		Long: `Display the analysis passes and the dependencies between them.

Passes are grouped by level. Every pass in a level only reads results
produced by earlier levels.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format (agent-friendly)`,
		Example: `  # Show the passes
  leapsched passes

  # Output as JSON
  leapsched passes --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPasses(cmd)
		},
	}

	return cmd
}

func runPasses(cmd *cobra.Command) error {
	r := NewCommandContext(cmd).Renderer

	graph, err := analysis.Graph()
	if err != nil {
		return err
	}
	levels, err := graph.GetExecutionLevels()
	if err != nil {
		return fmt.Errorf("failed to order analysis passes: %w", err)
	}

	passes := make(map[string]analysis.PassDef)
	for _, p := range analysis.Passes() {
		passes[p.ID] = p
	}

	out := output.PassesOutput{
		Levels:      make([]output.PassLevel, 0, len(levels)),
		TotalPasses: len(passes),
	}
	for i, level := range levels {
		pl := output.PassLevel{Level: i, Passes: make([]output.PassInfo, 0, len(level))}
		for _, id := range level {
			p := passes[id]
			pl.Passes = append(pl.Passes, output.PassInfo{
				ID:          p.ID,
				Description: p.Description,
				Requires:    nonNilStrings(p.Requires),
			})
		}
		out.Levels = append(out.Levels, pl)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		passesMarkdown(r, &out)
	default:
		passesText(r, &out)
	}
	return nil
}

// passesText outputs passes in styled text format.
func passesText(r *output.Renderer, out *output.PassesOutput) {
	styles := r.Styles()

	r.Header(1, "Analysis Passes")

	for _, level := range out.Levels {
		r.Println(styles.Header2.Render(fmt.Sprintf("Level %d:", level.Level)))
		for _, p := range level.Passes {
			r.Printf("  %s %s\n", styles.Resource.Render(p.ID), styles.Muted.Render(p.Description))
			if len(p.Requires) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("requires:"), strings.Join(p.Requires, ", "))
			}
		}
		r.Println("")
	}

	r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d passes", out.TotalPasses)))
}

// passesMarkdown outputs passes in markdown format.
func passesMarkdown(r *output.Renderer, out *output.PassesOutput) {
	r.Println(output.FormatHeader(1, "Analysis Passes"))
	r.Println("")

	for _, level := range out.Levels {
		r.Println(output.FormatHeader(2, fmt.Sprintf("Level %d", level.Level)))
		for _, p := range level.Passes {
			r.Printf("- %s: %s\n", p.ID, p.Description)
			if len(p.Requires) > 0 {
				r.Printf("  - requires: %s\n", strings.Join(p.Requires, ", "))
			}
		}
		r.Println("")
	}

	r.Println(output.FormatKeyValue("Total Passes", fmt.Sprintf("%d", out.TotalPasses)))
}
