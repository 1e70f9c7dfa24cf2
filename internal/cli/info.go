package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// distributionInfo is the JSON shape of "presswatch info --json".
type distributionInfo struct {
	Mode       string `json:"mode"`
	Platform   string `json:"platform"`
	DataDir    string `json:"data_dir"`
	ConfigDir  string `json:"config_dir"`
	CacheDir   string `json:"cache_dir"`
	LogsDir    string `json:"logs_dir"`
	ReportsDir string `json:"reports_dir"`
	Database   string `json:"database"`
	Prompts    string `json:"prompts"`
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the distribution mode and resolved directories",
		RunE:  runInfo,
	}
}

func runInfo(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}

	info := distributionInfo{
		Mode:       ws.Mode.String(),
		Platform:   runtime.GOOS,
		DataDir:    ws.Paths.DataDir,
		ConfigDir:  ws.Paths.ConfigDir,
		CacheDir:   ws.Paths.CacheDir,
		LogsDir:    ws.Paths.LogsDir,
		ReportsDir: ws.Paths.ReportsDir,
		Database:   ws.Paths.DatabasePath(),
		Prompts:    ws.Paths.PromptsDir(),
	}

	out := cmd.OutOrStdout()
	if flags.jsonMode {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(out, "Mode:     %s\n", info.Mode)
	fmt.Fprintf(out, "Platform: %s\n", info.Platform)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Data:     %s\n", info.DataDir)
	fmt.Fprintf(out, "Config:   %s\n", info.ConfigDir)
	fmt.Fprintf(out, "Cache:    %s\n", info.CacheDir)
	fmt.Fprintf(out, "Logs:     %s\n", info.LogsDir)
	fmt.Fprintf(out, "Reports:  %s\n", info.ReportsDir)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Database: %s\n", info.Database)
	fmt.Fprintf(out, "Prompts:  %s\n", info.Prompts)
	return nil
}
