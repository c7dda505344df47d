package commands

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapsched/internal/cli/output"
	"github.com/leapstack-labs/leapsched/internal/state"
	"github.com/spf13/cobra"
)

// ErrDrift is returned by drift --check when the analysis changed.
var ErrDrift = errors.New("analysis drifted from the recorded snapshot")

// DriftOptions holds options for the drift command.
type DriftOptions struct {
	Record bool // Record the current analysis as the new baseline
	Check  bool // Fail when anything changed
}

// NewDriftCommand creates the drift command.
func NewDriftCommand() *cobra.Command {
	opts := &DriftOptions{}
	cmd := &cobra.Command{
		Use:   "drift [app-file]",
		Short: "Compare the analysis with the last recorded snapshot",
		Long: `Compare the current analysis of an application with the most recent
snapshot recorded by 'leapsched analyze --record' or 'leapsched drift --record'.

Reports resources that were added or removed, ownership and core changes,
channel and timer queue changes, and changes to the Send and Sync sets.`,
		Example: `  # Show what changed since the last snapshot
  leapsched drift

  # Fail in CI when anything changed
  leapsched drift --check

  # Show changes and make the current analysis the new baseline
  leapsched drift --record`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrift(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Record, "record", false, "Record the current analysis as the new baseline")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Exit with an error when the analysis changed")

	return cmd
}

func runDrift(cmd *cobra.Command, args []string, opts *DriftOptions) error {
	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()
	r := cmdCtx.Renderer

	loaded, err := cmdCtx.LoadApp(cmdCtx.AppPath(args))
	if err != nil {
		return err
	}
	a := cmdCtx.Analyzer.Analyze(loaded.App)
	current := state.NewSnapshot(loaded.App.Name, a)

	store, cleanup, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	defer cleanup()

	out := output.DriftOutput{App: loaded.App.Name, Changes: []output.DriftChange{}}

	baseline, err := store.LatestSnapshot(ctx, loaded.App.Name)
	switch {
	case errors.Is(err, state.ErrNoSnapshot):
		cmdCtx.Logger.Debug("no baseline snapshot", "app", loaded.App.Name)
	case err != nil:
		return fmt.Errorf("failed to load baseline: %w", err)
	default:
		out.Baseline = &output.SnapshotInfo{ID: baseline.ID, RecordedAt: baseline.RecordedAt}
		for _, c := range state.Drift(baseline, current) {
			out.Changes = append(out.Changes, output.DriftChange{
				Kind:    string(c.Kind),
				Subject: c.Subject,
				Before:  c.Before,
				After:   c.After,
			})
		}
	}

	if opts.Record {
		if err := store.SaveSnapshot(ctx, current); err != nil {
			return fmt.Errorf("failed to record snapshot: %w", err)
		}
		out.Recorded = &output.SnapshotInfo{ID: current.ID, RecordedAt: current.RecordedAt}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(out); err != nil {
			return err
		}
	case output.ModeMarkdown:
		driftMarkdown(r, &out)
	default:
		driftText(r, &out)
	}

	if opts.Check && len(out.Changes) > 0 {
		return ErrDrift
	}
	return nil
}

func driftText(r *output.Renderer, out *output.DriftOutput) {
	r.Header(1, "Drift of "+out.App)

	switch {
	case out.Baseline == nil:
		r.Muted("No snapshot recorded yet. Run with --record to create a baseline.")
	case len(out.Changes) == 0:
		r.Success(fmt.Sprintf("No changes since %s", out.Baseline.RecordedAt.Format("2006-01-02 15:04:05")))
	default:
		r.Printf("Changes since %s:\n", out.Baseline.RecordedAt.Format("2006-01-02 15:04:05"))
		driftTable(r, out.Changes)
	}

	if out.Recorded != nil {
		r.Success("Recorded snapshot " + out.Recorded.ID)
	}
}

func driftMarkdown(r *output.Renderer, out *output.DriftOutput) {
	r.Println(output.FormatHeader(1, "Drift of "+out.App))
	r.Println("")

	if out.Baseline == nil {
		r.Println("No snapshot recorded yet.")
	} else {
		r.Println(output.FormatKeyValue("Baseline", out.Baseline.ID))
		r.Println(output.FormatKeyValue("Changes", fmt.Sprintf("%d", len(out.Changes))))
		r.Println("")
		if len(out.Changes) > 0 {
			driftTable(r, out.Changes)
		}
	}

	if out.Recorded != nil {
		r.Println(output.FormatKeyValue("Recorded", out.Recorded.ID))
	}
}

func driftTable(r *output.Renderer, changes []output.DriftChange) {
	rows := make([]table.Row, 0, len(changes))
	for _, c := range changes {
		rows = append(rows, table.Row{c.Kind, c.Subject, c.Before, c.After})
	}
	r.Table(table.Row{"Change", "Subject", "Before", "After"}, rows)
}
