package commands

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapsched/internal/cli/output"
	"github.com/leapstack-labs/leapsched/internal/state"
	"github.com/spf13/cobra"
)

// NewSnapshotsCommand creates the snapshots command.
func NewSnapshotsCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "snapshots [app-file]",
		Short: "List recorded analysis snapshots",
		Long: `List the analysis snapshots recorded for an application, newest first.

Snapshots are kept in the state database (state_path, default
.leapsched/state.db).`,
		Example: `  # List the last 10 snapshots
  leapsched snapshots --limit 10

  # Delete a snapshot
  leapsched snapshots rm 6f1c...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshots(cmd, args, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of snapshots to list (0 for all)")
	cmd.AddCommand(newSnapshotsRemoveCommand())

	return cmd
}

func newSnapshotsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete recorded snapshots",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			store, cleanup, err := cmdCtx.OpenStore()
			if err != nil {
				return err
			}
			defer cleanup()

			for _, id := range args {
				if err := store.DeleteSnapshot(cmd.Context(), id); err != nil {
					if errors.Is(err, state.ErrNoSnapshot) {
						return fmt.Errorf("snapshot %s not found", id)
					}
					return err
				}
				cmdCtx.Renderer.Success("Deleted snapshot " + id)
			}
			return nil
		},
	}
}

// SnapshotSummary is the JSON form of one listed snapshot.
type SnapshotSummary struct {
	output.SnapshotInfo
	Resources int `json:"resources"`
	Channels  int `json:"channels"`
	SendTypes int `json:"send_types"`
	SyncTypes int `json:"sync_types"`
}

func runSnapshots(cmd *cobra.Command, args []string, limit int) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	loaded, err := cmdCtx.LoadApp(cmdCtx.AppPath(args))
	if err != nil {
		return err
	}

	store, cleanup, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	defer cleanup()

	snaps, err := store.ListSnapshots(cmd.Context(), loaded.App.Name, limit)
	if err != nil {
		return err
	}

	summaries := make([]SnapshotSummary, 0, len(snaps))
	for _, s := range snaps {
		summaries = append(summaries, SnapshotSummary{
			SnapshotInfo: output.SnapshotInfo{ID: s.ID, RecordedAt: s.RecordedAt},
			Resources:    len(s.Resources),
			Channels:     len(s.Channels),
			SendTypes:    len(s.SendTypes),
			SyncTypes:    len(s.SyncTypes),
		})
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(summaries)
	}
	if len(summaries) == 0 {
		r.Muted("No snapshots recorded for " + loaded.App.Name)
		return nil
	}

	rows := make([]table.Row, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, table.Row{
			s.ID,
			s.RecordedAt.Local().Format("2006-01-02 15:04:05"),
			s.Resources, s.Channels, s.SendTypes, s.SyncTypes,
		})
	}
	r.Table(table.Row{"ID", "Recorded", "Resources", "Channels", "Send", "Sync"}, rows)
	return nil
}
