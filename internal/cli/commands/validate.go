package commands

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapsched/internal/cli/output"
	"github.com/leapstack-labs/leapsched/pkg/core"
	"github.com/spf13/cobra"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Strict bool // Treat warnings as errors
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate [app-file]",
		Short: "Check an application for structural errors",
		Long: `Check an application description without running the analysis.

Reports unknown resources and tasks, invalid priorities and cores,
late resources claimed by several cores, and resources touched by
tasks on different cores without being late.

Exits with an error when the application is invalid, or when it has
warnings and --strict (or fail_on_warnings) is set.`,
		Example: `  # Validate the configured application
  leapsched validate

  # Fail on warnings too
  leapsched validate firmware/app.hcl --strict`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Treat warnings as errors")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string, opts *ValidateOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	out := output.ValidateOutput{
		Errors:   []output.DiagnosticInfo{},
		Warnings: []output.DiagnosticInfo{},
	}

	loaded, err := cmdCtx.LoadApp(cmdCtx.AppPath(args))
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		out.App = verr.App
		out.Errors = diagnosticInfos(verr.Diagnostics())
	case err != nil:
		return err
	default:
		out.App = loaded.App.Name
		out.Valid = true
		out.Warnings = diagnosticInfos(loaded.Warnings)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(out); err != nil {
			return err
		}
	case output.ModeMarkdown:
		validateMarkdown(r, &out)
	default:
		validateText(r, &out)
	}

	if !out.Valid {
		return fmt.Errorf("application %s is invalid: %d error(s)", out.App, len(out.Errors))
	}
	if (opts.Strict || cmdCtx.Cfg.FailOnWarnings) && len(out.Warnings) > 0 {
		return fmt.Errorf("application %s has %d warning(s)", out.App, len(out.Warnings))
	}
	return nil
}

func validateText(r *output.Renderer, out *output.ValidateOutput) {
	styles := r.Styles()

	for _, d := range out.Errors {
		r.Printf("  %s %s: %s\n", styles.StatusFailed, styles.Resource.Render(d.Subject), d.Message)
	}
	for _, d := range out.Warnings {
		r.Printf("  %s %s: %s\n", styles.Warning.Render("!"), styles.Resource.Render(d.Subject), d.Message)
	}
	if len(out.Errors)+len(out.Warnings) > 0 {
		r.Println("")
	}

	switch {
	case !out.Valid:
		r.Error(fmt.Sprintf("%s: %d error(s)", out.App, len(out.Errors)))
	case len(out.Warnings) > 0:
		r.Warning(fmt.Sprintf("%s is valid with %d warning(s)", out.App, len(out.Warnings)))
	default:
		r.Success(out.App + " is valid")
	}
}

func validateMarkdown(r *output.Renderer, out *output.ValidateOutput) {
	r.Println(output.FormatHeader(1, "Validation of "+out.App))
	r.Println("")
	r.Println(output.FormatKeyValue("Valid", fmt.Sprintf("%t", out.Valid)))
	r.Println("")

	section := func(title string, ds []output.DiagnosticInfo) {
		if len(ds) == 0 {
			return
		}
		r.Println(output.FormatHeader(2, title))
		for _, d := range ds {
			r.Printf("- %s: %s\n", d.Subject, d.Message)
		}
		r.Println("")
	}
	section(output.Title(core.SeverityError.String())+"s", out.Errors)
	section(output.Title(core.SeverityWarning.String())+"s", out.Warnings)
}
