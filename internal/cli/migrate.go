package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/presswatch/internal/migrate"
	"github.com/mesh-intelligence/presswatch/internal/paths"
)

func newMigrateCmd() *cobra.Command {
	var force bool
	migrateCmd := &cobra.Command{
		Use:   "migrate <dest-root>",
		Short: "Copy the workspace to a new location",
		Long: "Copy the current data and configuration trees into a self-contained\n" +
			"layout under <dest-root> and verify the copy. The source is never\n" +
			"modified; remove it afterwards with \"migrate cleanup\" once you have\n" +
			"confirmed the new location works.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			dest, err := paths.ResolveAt(args[0])
			if err != nil {
				return err
			}

			mgr := migrate.NewManager(newLogger(cmd))
			record, err := mgr.Migrate(ws.Paths, dest, force)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if flags.jsonMode {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(record)
			}
			fmt.Fprintf(out, "Migrated %d files (%d bytes) to %s\n", record.Files, record.Bytes, dest.DataDir)
			fmt.Fprintf(out, "Verified: %t\n", record.Verified)
			fmt.Fprintf(out, "The old workspace at %s was left in place.\n", ws.Paths.DataDir)
			return nil
		},
	}
	migrateCmd.Flags().BoolVar(&force, "force", false, "copy even if the destination already holds a database")

	var yes bool
	cleanup := &cobra.Command{
		Use:   "cleanup <dir>",
		Short: "Delete an old workspace after a verified migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete %s without --yes", args[0])
			}
			if err := migrate.CleanupSource(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
	cleanup.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")

	migrateCmd.AddCommand(cleanup)
	return migrateCmd
}
