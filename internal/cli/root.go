// Package cli implements the presswatch command-line interface: workspace
// initialization, distribution info, credential management, portable-mode
// toggling, and data migration.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/presswatch/internal/dist"
	"github.com/mesh-intelligence/presswatch/internal/paths"
	"github.com/mesh-intelligence/presswatch/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	dataDir   string
	configDir string
	jsonMode  bool
}

var flags rootFlags

// NewRootCmd creates the top-level "presswatch" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "presswatch",
		Short: "Scrape and analyze government press releases",
		Long: "Presswatch collects government press releases, analyzes them with an\n" +
			"external language-model API, and renders reports. This CLI manages the\n" +
			"workspace: where data and configuration live, how the API key is\n" +
			"stored, and how a workspace moves between machines and install modes.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory override")
	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "config directory override")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newKeyCmd())
	root.AddCommand(newPortableCmd())
	root.AddCommand(newMigrateCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitUserError)
	}
}

// workspace is the explicit startup object carrying the detected mode and
// resolved directories. It is constructed once per command and passed to
// every collaborator; there is no process-wide singleton.
type workspace struct {
	Mode  types.Mode
	Paths types.PathSet
}

// openWorkspace detects the distribution mode and resolves (creating) the
// directory set, honoring the global flag overrides.
func openWorkspace() (*workspace, error) {
	mode := dist.Detect()
	set, err := paths.Resolve(mode, paths.Overrides{
		DataDir:   flags.dataDir,
		ConfigDir: flags.configDir,
	})
	if err != nil {
		return nil, err
	}
	return &workspace{Mode: mode, Paths: set}, nil
}

// newLogger returns a structured logger writing to the command's stderr,
// used for security warnings and migration progress.
func newLogger(cmd *cobra.Command) *slog.Logger {
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
}

// exitError prints the error to stderr and exits with the given code.
func exitError(code int, msg string) error {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
	return nil // unreachable
}
