package commands

import (
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapsched/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewResourcesCommand creates the resources command.
func NewResourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources [app-file]",
		Short: "Show resource ownership, ceilings and locking",
		Long: `Show how every resource in an application is owned.

A resource is owned when a single context uses it, co-owned when several
contexts at the same priority share it, and contended otherwise. Contended
resources get a ceiling, and contexts running below the ceiling must lock.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown table (agent-friendly)`,
		Example: `  # List resources of the configured application
  leapsched resources

  # Output as JSON
  leapsched resources firmware/app.hcl -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runResources,
	}
	return cmd
}

func runResources(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)

	loaded, err := cmdCtx.LoadApp(cmdCtx.AppPath(args))
	if err != nil {
		return err
	}
	a := cmdCtx.Analyzer.Analyze(loaded.App)
	infos := resourceInfos(loaded.App, a)

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(infos)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Resources of "+loaded.App.Name))
		r.Println("")
	default:
		r.Header(1, "Resources of "+loaded.App.Name)
	}
	resourceTable(r, infos)
	return nil
}

// resourceTable renders resources as a table in the renderer's mode.
func resourceTable(r *output.Renderer, infos []output.ResourceInfo) {
	if len(infos) == 0 {
		r.Muted("No resources are used.")
		return
	}

	rows := make([]table.Row, 0, len(infos))
	for _, info := range infos {
		ceiling := "-"
		if info.Ceiling != nil {
			ceiling = strconv.Itoa(int(*info.Ceiling))
		}
		name := info.Name
		if info.Late {
			name += " (late)"
		}
		rows = append(rows, table.Row{
			name,
			info.Type,
			info.Ownership,
			ceiling,
			location(info),
			output.FormatList(info.LockedBy),
		})
	}
	r.Table(table.Row{"Resource", "Type", "Ownership", "Ceiling", "Core", "Locked by"}, rows)
}

func location(info output.ResourceInfo) string {
	if info.Shared {
		cores := make([]string, len(info.Cores))
		for i, c := range info.Cores {
			cores[i] = strconv.Itoa(int(c))
		}
		return "shared " + strings.Join(cores, ",")
	}
	loc := strconv.Itoa(int(info.Core))
	if info.CrossInitialized {
		loc += " (cross-init)"
	}
	return loc
}
