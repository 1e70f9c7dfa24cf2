package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/presswatch/internal/dist"
)

func newPortableCmd() *cobra.Command {
	portable := &cobra.Command{
		Use:   "portable",
		Short: "Toggle portable mode",
		Long: "Portable mode keeps all data and configuration beside the executable\n" +
			"so the install can move between machines on removable media. The\n" +
			"toggle takes effect at the next start.",
	}

	enable := &cobra.Command{
		Use:   "enable",
		Short: "Create the PORTABLE marker beside the executable",
		RunE: func(cmd *cobra.Command, args []string) error {
			marker, err := dist.EnablePortable()
			if err != nil {
				return fmt.Errorf("create marker: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Portable mode enabled (%s)\n", marker)
			fmt.Fprintln(cmd.OutOrStdout(), "Restart the application for the change to take effect.")
			return nil
		},
	}

	disable := &cobra.Command{
		Use:   "disable",
		Short: "Remove the PORTABLE marker",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dist.DisablePortable(); err != nil {
				return fmt.Errorf("remove marker: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Portable mode disabled.")
			fmt.Fprintln(cmd.OutOrStdout(), "Restart the application for the change to take effect.")
			return nil
		},
	}

	portable.AddCommand(enable, disable)
	return portable
}
