package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/presswatch/internal/config"
	"github.com/mesh-intelligence/presswatch/internal/sqlite"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the presswatch workspace",
		Long: "Resolve the data and configuration directories for the current\n" +
			"distribution mode, write the bundled default configuration documents\n" +
			"(never overwriting user edits), and initialize the article database.",
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return exitError(exitSysError, fmt.Sprintf("resolve directories: %s", err))
	}

	for _, doc := range []string{config.DocSettings, config.DocSources} {
		if _, err := config.Ensure(ws.Paths.ConfigDir, doc); err != nil {
			return exitError(exitSysError, fmt.Sprintf("materialize %s: %s", doc, err))
		}
	}
	if err := config.EnsurePrompts(ws.Paths.ConfigDir); err != nil {
		return exitError(exitSysError, fmt.Sprintf("materialize prompts: %s", err))
	}

	sources, err := config.LoadSources(ws.Paths.ConfigDir)
	if err != nil {
		return exitError(exitSysError, fmt.Sprintf("load sources: %s", err))
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(ws.Paths, sources); err != nil {
		return exitError(exitSysError, fmt.Sprintf("initialize database: %s", err))
	}
	if err := backend.Detach(); err != nil {
		return exitError(exitSysError, fmt.Sprintf("finalize database: %s", err))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized presswatch workspace (%s mode)\n", ws.Mode)
	fmt.Fprintf(out, "  data:     %s\n", ws.Paths.DataDir)
	fmt.Fprintf(out, "  config:   %s\n", ws.Paths.ConfigDir)
	fmt.Fprintf(out, "  database: %s\n", ws.Paths.DatabasePath())
	return nil
}
