package migrate

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/presswatch/internal/paths"
	"github.com/mesh-intelligence/presswatch/pkg/types"
)

func testManager() *Manager {
	return NewManager(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// seedSource builds a self-contained source tree with a database file,
// nested config, and a report.
func seedSource(t *testing.T) types.PathSet {
	t.Helper()
	set, err := paths.ResolveAt(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(set.DatabasePath(), []byte("sqlite payload"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(set.ConfigDir, "settings.yaml"), []byte("openai: {}\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(set.ReportsDir, "2026-08-weekly.md"), []byte("# report"), 0o600))
	return set
}

func TestMigrate_CopyAndVerify(t *testing.T) {
	source := seedSource(t)
	dest, err := paths.ResolveAt(t.TempDir())
	require.NoError(t, err)

	record, err := testManager().Migrate(source, dest, false)
	require.NoError(t, err)

	assert.True(t, record.Verified)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, 3, record.Files)
	assert.False(t, record.CompletedAt.IsZero())

	assert.FileExists(t, dest.DatabasePath())
	assert.FileExists(t, filepath.Join(dest.ConfigDir, "settings.yaml"))
	assert.FileExists(t, filepath.Join(dest.ReportsDir, "2026-08-weekly.md"))

	// Verified record is persisted in the destination config dir.
	assert.FileExists(t, filepath.Join(dest.ConfigDir, RecordFileName))

	// The source tree is untouched.
	assert.FileExists(t, source.DatabasePath())
}

func TestMigrate_SeparateConfigTree(t *testing.T) {
	// Production-style source: config outside the data tree.
	dataDir := t.TempDir()
	configDir := t.TempDir()
	source := types.PathSet{
		DataDir:    dataDir,
		ConfigDir:  configDir,
		CacheDir:   filepath.Join(dataDir, "cache"),
		LogsDir:    filepath.Join(dataDir, "logs"),
		ReportsDir: filepath.Join(dataDir, "reports"),
	}
	require.NoError(t, os.WriteFile(source.DatabasePath(), []byte("db"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "sources.yaml"), []byte("sources: {}\n"), 0o600))

	dest, err := paths.ResolveAt(t.TempDir())
	require.NoError(t, err)

	record, err := testManager().Migrate(source, dest, false)
	require.NoError(t, err)
	assert.True(t, record.Verified)
	assert.FileExists(t, dest.DatabasePath())
	assert.FileExists(t, filepath.Join(dest.ConfigDir, "sources.yaml"))
}

func TestMigrate_RefusesOccupiedDestination(t *testing.T) {
	source := seedSource(t)
	dest, err := paths.ResolveAt(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dest.DatabasePath(), []byte("existing"), 0o600))

	record, err := testManager().Migrate(source, dest, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrDestinationOccupied)
	assert.False(t, record.Verified)

	// The existing database was not overwritten.
	data, err := os.ReadFile(dest.DatabasePath())
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
}

func TestMigrate_ForceOverwritesOccupiedDestination(t *testing.T) {
	source := seedSource(t)
	dest, err := paths.ResolveAt(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dest.DatabasePath(), []byte("existing"), 0o600))

	record, err := testManager().Migrate(source, dest, true)
	require.NoError(t, err)
	assert.True(t, record.Verified)

	data, err := os.ReadFile(dest.DatabasePath())
	require.NoError(t, err)
	assert.Equal(t, "sqlite payload", string(data))
}

func TestMigrate_Idempotent(t *testing.T) {
	source := seedSource(t)
	dest, err := paths.ResolveAt(t.TempDir())
	require.NoError(t, err)

	first, err := testManager().Migrate(source, dest, false)
	require.NoError(t, err)
	require.True(t, first.Verified)

	// Second run with an unchanged source: force past the occupancy check
	// and verify the identical outcome.
	second, err := testManager().Migrate(source, dest, true)
	require.NoError(t, err)
	assert.True(t, second.Verified)
	assert.Equal(t, first.Files, second.Files)
	assert.Equal(t, first.Bytes, second.Bytes)

	data, err := os.ReadFile(dest.DatabasePath())
	require.NoError(t, err)
	assert.Equal(t, "sqlite payload", string(data))
}

func TestMigrate_VerificationMismatch(t *testing.T) {
	source := seedSource(t)
	destRoot := t.TempDir()
	dest, err := paths.ResolveAt(destRoot)
	require.NoError(t, err)

	// Simulate concurrent external modification: the destination database
	// is truncated between copy and verify. Copying into a read-only view
	// is hard to arrange portably, so instead verify directly against a
	// tampered destination produced by a normal copy.
	_, err = testManager().Migrate(source, dest, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(source.DatabasePath(), []byte("sqlite payload grown"), 0o600))

	_, err = testManager().Migrate(source, dest, true)
	require.NoError(t, err, "force recopy picks up the new size")

	require.NoError(t, os.Truncate(dest.DatabasePath(), 2))
	_, n, verr := verifyTree(source.DataDir, dest.DataDir)
	assert.Error(t, verr)
	assert.ErrorIs(t, verr, types.ErrVerificationMismatch)
	assert.Zero(t, n)
}

func TestMigrate_VerificationDetectsExtraDestinationFile(t *testing.T) {
	source := seedSource(t)
	dest, err := paths.ResolveAt(t.TempDir())
	require.NoError(t, err)

	first, err := testManager().Migrate(source, dest, false)
	require.NoError(t, err)
	require.True(t, first.Verified)

	// A file that appeared only at the destination is a mismatch; the
	// persisted migration record itself is not.
	require.NoError(t, os.WriteFile(filepath.Join(dest.DataDir, "stray.tmp"), []byte("x"), 0o600))

	record, err := testManager().Migrate(source, dest, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrVerificationMismatch)
	assert.False(t, record.Verified)
}

func TestMigrate_PartialCopy(t *testing.T) {
	source := seedSource(t)
	dest, err := paths.ResolveAt(t.TempDir())
	require.NoError(t, err)

	// Make the destination reports dir unwritable so the walk fails
	// mid-copy.
	require.NoError(t, os.Chmod(dest.ReportsDir, 0o500))
	t.Cleanup(func() { os.Chmod(dest.ReportsDir, 0o700) })

	record, err := testManager().Migrate(source, dest, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrPartialCopy)
	assert.False(t, record.Verified)
}

func TestCleanupSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.db"), []byte("x"), 0o600))

	require.NoError(t, CleanupSource(dir))
	assert.NoDirExists(t, dir)

	assert.Error(t, CleanupSource(""))
	assert.Error(t, CleanupSource(string(filepath.Separator)))
}
