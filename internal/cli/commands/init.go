package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leapsched/internal/cli/output"
	"github.com/leapstack-labs/leapsched/internal/config"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new leapsched project",
		Long: `Initialize a new leapsched project with a configuration file and a
starter application.

This creates:
  - leapsched.yaml configuration file
  - app.yaml with one hardware task sharing a resource with idle
  - .gitignore excluding the state database

Use --example to create a sensor hub application in HCL with late
resources, message passing and a scheduled task.`,
		Example: `  # Initialize in current directory
  leapsched init

  # Initialize with a full working example
  leapsched init --example

  # Initialize in a new directory
  leapsched init firmware --example

  # Force overwrite existing config
  leapsched init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

			template := "minimal"
			if example {
				template = "example"
			}
			return runInit(r, dir, template, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&example, "example", false, "Create a full example application")

	return cmd
}

func runInit(r *output.Renderer, dir, template string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.ConfigFileName)
	}

	if err := copyTemplate(template, dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, _ := listTemplateFiles(template)
	for _, f := range files {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Success("leapsched project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  leapsched validate   Check the application for errors")
	r.Println("  leapsched analyze    Compute ownership, ceilings and queues")
	r.Println("  leapsched analyze --record && leapsched drift")
	r.Println("                       Track changes between revisions")

	return nil
}
