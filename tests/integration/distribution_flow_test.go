// Integration tests for the startup flow: mode detection, path
// resolution, config materialization, database initialization, and
// migration between workspaces.
package integration

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/presswatch/internal/config"
	"github.com/mesh-intelligence/presswatch/internal/dist"
	"github.com/mesh-intelligence/presswatch/internal/migrate"
	"github.com/mesh-intelligence/presswatch/internal/paths"
	"github.com/mesh-intelligence/presswatch/internal/sqlite"
	"github.com/mesh-intelligence/presswatch/pkg/types"
)

// setupEnv forces development mode and points both directory roots at
// temp dirs.
func setupEnv(t *testing.T) (dataDir, configDir string) {
	t.Helper()
	dataDir = filepath.Join(t.TempDir(), "data")
	configDir = filepath.Join(t.TempDir(), "config")
	t.Setenv(dist.EnvDev, "1")
	t.Setenv(dist.EnvPortable, "")
	t.Setenv(paths.EnvDataDir, dataDir)
	t.Setenv(paths.EnvConfigDir, configDir)
	return dataDir, configDir
}

// startup runs the process-start sequence the application performs:
// detect, resolve, materialize, initialize the database.
func startup(t *testing.T) (types.Mode, types.PathSet) {
	t.Helper()

	mode := dist.Detect()
	set, err := paths.Resolve(mode, paths.Overrides{})
	require.NoError(t, err)

	_, err = config.Ensure(set.ConfigDir, config.DocSettings)
	require.NoError(t, err)
	sources, err := config.LoadSources(set.ConfigDir)
	require.NoError(t, err)
	require.NoError(t, config.EnsurePrompts(set.ConfigDir))

	backend := sqlite.NewBackend()
	require.NoError(t, backend.Attach(set, sources))
	require.NoError(t, backend.Detach())

	return mode, set
}

func TestStartupFlow(t *testing.T) {
	dataDir, configDir := setupEnv(t)

	mode, set := startup(t)
	assert.Equal(t, types.Development, mode)
	assert.Equal(t, dataDir, set.DataDir)
	assert.Equal(t, configDir, set.ConfigDir)

	assert.FileExists(t, set.DatabasePath())
	assert.FileExists(t, filepath.Join(configDir, "settings.yaml"))
	assert.FileExists(t, filepath.Join(configDir, "sources.yaml"))
	assert.DirExists(t, set.CacheDir)
	assert.DirExists(t, set.LogsDir)
	assert.DirExists(t, set.ReportsDir)

	// The settings document loads and carries the shipped defaults.
	settings, err := config.LoadSettings(configDir)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4", settings.OpenAI.Model)

	// A second startup is a no-op on the materialized documents.
	edited := []byte("openai:\n  model: edited\n")
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "settings.yaml"), edited, 0o600))
	startup(t)
	data, err := os.ReadFile(filepath.Join(configDir, "settings.yaml"))
	require.NoError(t, err)
	assert.Equal(t, edited, data)
}

func TestPortableEnvironmentFlow(t *testing.T) {
	dataDir, _ := setupEnv(t)
	t.Setenv(dist.EnvDev, "")
	t.Setenv(dist.EnvPortable, "1")

	mode, set := startup(t)
	assert.Equal(t, types.Portable, mode)
	// The data override still wins over the portable default.
	assert.Equal(t, dataDir, set.DataDir)
}

func TestMigrationFlow(t *testing.T) {
	_, configDir := setupEnv(t)
	_, source := startup(t)

	// Put some user state into the workspace.
	report := filepath.Join(source.ReportsDir, "weekly.md")
	require.NoError(t, os.WriteFile(report, []byte("# weekly"), 0o600))

	destRoot := t.TempDir()
	dest, err := paths.ResolveAt(destRoot)
	require.NoError(t, err)

	mgr := migrate.NewManager(slog.Default())
	record, err := mgr.Migrate(source, dest, false)
	require.NoError(t, err)
	require.True(t, record.Verified)

	// The migrated database attaches and still lists the seeded sources.
	sources, err := config.LoadSources(dest.ConfigDir)
	require.NoError(t, err)

	backend := sqlite.NewBackend()
	require.NoError(t, backend.Attach(dest, sources))
	rows, err := backend.ListSources()
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	require.NoError(t, backend.Detach())

	assert.FileExists(t, filepath.Join(dest.ReportsDir, "weekly.md"))
	assert.FileExists(t, filepath.Join(dest.ConfigDir, migrate.RecordFileName))

	// Source workspace untouched, including its config tree.
	assert.FileExists(t, source.DatabasePath())
	assert.FileExists(t, filepath.Join(configDir, "settings.yaml"))
}
