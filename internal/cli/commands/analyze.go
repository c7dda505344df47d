package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapsched/internal/cli/config"
	"github.com/leapstack-labs/leapsched/internal/cli/output"
	"github.com/leapstack-labs/leapsched/internal/state"
	"github.com/leapstack-labs/leapsched/internal/watch"
	"github.com/spf13/cobra"
)

// ErrWarnings is returned when warnings are treated as errors.
var ErrWarnings = errors.New("application has warnings (fail_on_warnings is set)")

// AnalyzeOptions holds options for the analyze command.
type AnalyzeOptions struct {
	Record bool
	Watch  bool
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [app-file]",
		Short: "Analyze an application's resources and message queues",
		Long: `Run the full static analysis over an application and report the result.

The report covers:
  - Late resources and the core whose init produces each of them
  - Resource ownership, ceilings, locations and the contexts that must lock
  - Dispatch channels, free queues and the timer queue
  - Types that must be Send or Sync

The application file defaults to the configured app (app.yaml).

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format (agent-friendly)`,
		Example: `  # Analyze the configured application
  leapsched analyze

  # Analyze a specific file and record a snapshot
  leapsched analyze firmware/app.hcl --record

  # Re-analyze whenever the file changes
  leapsched analyze --watch

  # Output as JSON
  leapsched analyze --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Record, "record", false, "Record a snapshot in the state store")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run the analysis when the application file changes")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	path := cmdCtx.AppPath(args)

	if !opts.Watch {
		return analyzeOnce(cmd.Context(), cmdCtx, path, opts)
	}

	files := []string{path}
	if cfgFile := config.GetConfigFileUsed(); cfgFile != "" {
		files = append(files, cfgFile)
	}
	w, err := watch.New(watch.Config{
		Files:    files,
		Debounce: cmdCtx.Cfg.Watch.Debounce,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return err
	}

	run := func(ctx context.Context) error {
		err := analyzeOnce(ctx, cmdCtx, path, opts)
		if err != nil {
			cmdCtx.Renderer.Error(err.Error())
		}
		cmdCtx.Renderer.Muted(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", strings.Join(files, ", ")))
		return err
	}

	_ = run(cmd.Context())
	return w.Run(cmd.Context(), run)
}

func analyzeOnce(ctx context.Context, cmdCtx *CommandContext, path string, opts *AnalyzeOptions) error {
	r := cmdCtx.Renderer

	loaded, err := cmdCtx.LoadApp(path)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) && r.EffectiveMode() == output.ModeJSON {
			_ = r.JSON(output.ValidateOutput{
				App:      verr.App,
				Errors:   diagnosticInfos(verr.Diagnostics()),
				Warnings: []output.DiagnosticInfo{},
			})
		}
		return err
	}

	analysis := cmdCtx.Analyzer.Analyze(loaded.App)
	report := buildReport(loaded.App, analysis, loaded.Warnings)

	if opts.Record {
		store, cleanup, err := cmdCtx.OpenStore()
		if err != nil {
			return err
		}
		defer cleanup()

		snap := state.NewSnapshot(loaded.App.Name, analysis)
		if err := store.SaveSnapshot(ctx, snap); err != nil {
			return fmt.Errorf("failed to record snapshot: %w", err)
		}
		report.Snapshot = &output.SnapshotInfo{ID: snap.ID, RecordedAt: snap.RecordedAt}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(report); err != nil {
			return err
		}
	case output.ModeMarkdown:
		analyzeMarkdown(r, &report)
	default:
		analyzeText(r, &report)
	}

	if cmdCtx.Cfg.FailOnWarnings && len(loaded.Warnings) > 0 {
		return ErrWarnings
	}
	return nil
}

// analyzeText outputs the analysis in styled text format.
func analyzeText(r *output.Renderer, rep *output.AnalysisOutput) {
	styles := r.Styles()

	r.Header(1, fmt.Sprintf("Analysis of %s", rep.App))

	if len(rep.Late) > 0 {
		r.Println(styles.Header2.Render("Late resources"))
		for _, l := range rep.Late {
			r.Printf("  %s %s\n", styles.Muted.Render(fmt.Sprintf("core %d:", l.Core)), strings.Join(l.Resources, ", "))
		}
		r.Println("")
	}

	r.Println(styles.Header2.Render("Resources"))
	resourceTable(r, rep.Resources)
	r.Println("")

	r.Println(styles.Header2.Render("Queues"))
	queuesText(r, rep)
	r.Println("")

	r.Println(styles.Header2.Render("Cross-context safety"))
	r.Printf("  %s %s\n", styles.Muted.Render("send:"), output.FormatList(rep.SendTypes))
	r.Printf("  %s %s\n", styles.Muted.Render("sync:"), output.FormatList(rep.SyncTypes))

	if len(rep.Warnings) > 0 {
		r.Println("")
		r.Println(styles.Header2.Render("Warnings"))
		for _, w := range rep.Warnings {
			r.StatusLine(w.Subject, "warning", w.Message)
		}
	}

	if rep.Snapshot != nil {
		r.Println("")
		r.Success(fmt.Sprintf("Recorded snapshot %s", rep.Snapshot.ID))
	}
}

// analyzeMarkdown outputs the analysis in markdown format.
func analyzeMarkdown(r *output.Renderer, rep *output.AnalysisOutput) {
	r.Println(output.FormatHeader(1, "Analysis of "+rep.App))
	r.Println("")
	r.Println(output.FormatKeyValue("Cores", fmt.Sprintf("%d", rep.Cores)))
	r.Println(output.FormatKeyValue("Resources", fmt.Sprintf("%d", len(rep.Resources))))
	r.Println(output.FormatKeyValue("Channels", fmt.Sprintf("%d", len(rep.Channels))))
	r.Println("")

	if len(rep.Late) > 0 {
		r.Println(output.FormatHeader(2, "Late resources"))
		for _, l := range rep.Late {
			r.Println(output.FormatKeyValue(fmt.Sprintf("Core %d", l.Core), strings.Join(l.Resources, ", ")))
		}
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Resources"))
	r.Println("")
	resourceTable(r, rep.Resources)

	r.Println(output.FormatHeader(2, "Queues"))
	r.Println("")
	queuesMarkdown(r, rep)

	r.Println(output.FormatHeader(2, "Cross-context safety"))
	r.Println(output.FormatKeyValue("Send", output.FormatList(rep.SendTypes)))
	r.Println(output.FormatKeyValue("Sync", output.FormatList(rep.SyncTypes)))

	if len(rep.Warnings) > 0 {
		r.Println("")
		r.Println(output.FormatHeader(2, "Warnings"))
		for _, w := range rep.Warnings {
			r.Printf("- %s: %s\n", w.Subject, w.Message)
		}
	}

	if rep.Snapshot != nil {
		r.Println("")
		r.Println(output.FormatKeyValue("Snapshot", rep.Snapshot.ID))
	}
}
