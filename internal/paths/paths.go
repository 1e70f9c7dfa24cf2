// Package paths resolves the application's data, config, cache, log, and
// report directory locations from the detected distribution mode and the
// host platform, and creates them with owner-only permissions before use.
package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/presswatch/internal/dist"
	"github.com/mesh-intelligence/presswatch/pkg/types"
)

// AppDirName is the per-application directory name used under the host
// OS's standard locations in production mode.
const AppDirName = "presswatch"

// Environment variable names for directory overrides. Overrides apply
// after mode resolution, independently for data and config.
const (
	EnvDataDir   = "PRESSWATCH_DATA_DIR"
	EnvConfigDir = "PRESSWATCH_CONFIG_DIR"
)

// dirMode is the permission for every created directory. Owner-only:
// the tree holds credentials and user data.
const dirMode = 0o700

// Overrides carries explicit directory overrides from CLI flags. Empty
// fields fall through to the environment and then the mode defaults.
type Overrides struct {
	DataDir   string
	ConfigDir string
}

// locate holds the process-location functions used for the self-contained
// modes. Overridable in tests.
var locate = struct {
	sourceRoot    func() (string, bool)
	executableDir func() (string, error)
}{
	sourceRoot:    dist.SourceRoot,
	executableDir: dist.ExecutableDir,
}

// Resolve computes the directory set for the given mode, applies
// overrides, and creates every directory. A directory that cannot be
// created is fatal for the resolution call; a partial set is never
// returned.
func Resolve(mode types.Mode, ov Overrides) (types.PathSet, error) {
	dataDir, configDir, err := baseDirs(mode)
	if err != nil {
		return types.PathSet{}, fmt.Errorf("%w: %v", types.ErrResolution, err)
	}

	if ov.DataDir != "" {
		dataDir = ov.DataDir
	} else if env := os.Getenv(EnvDataDir); env != "" {
		dataDir = env
	}
	if ov.ConfigDir != "" {
		configDir = ov.ConfigDir
	} else if env := os.Getenv(EnvConfigDir); env != "" {
		configDir = env
	}

	return materialize(dataDir, configDir)
}

// ResolveAt computes a self-contained directory set nested under an
// explicit root, the same shape development and portable modes use. It is
// how migration destinations are laid out.
func ResolveAt(root string) (types.PathSet, error) {
	dataDir := filepath.Join(root, "data")
	return materialize(dataDir, filepath.Join(dataDir, "config"))
}

// baseDirs returns the mode-default data and config directories before
// overrides are applied.
func baseDirs(mode types.Mode) (dataDir, configDir string, err error) {
	switch mode {
	case types.Development:
		root, ok := locate.sourceRoot()
		if !ok {
			// Forced into dev mode without a checkout; fall back to
			// the working directory.
			root, err = os.Getwd()
			if err != nil {
				return "", "", err
			}
		}
		dataDir = filepath.Join(root, "data")
		return dataDir, filepath.Join(dataDir, "config"), nil

	case types.Portable:
		root, err := locate.executableDir()
		if err != nil {
			return "", "", err
		}
		dataDir = filepath.Join(root, "data")
		return dataDir, filepath.Join(dataDir, "config"), nil

	default:
		l := platformLayout()
		dataDir, err = l.dataDir()
		if err != nil {
			return "", "", err
		}
		configDir, err = l.configDir()
		if err != nil {
			return "", "", err
		}
		return dataDir, configDir, nil
	}
}

// materialize derives the dependent directories from the data root, makes
// everything absolute, and creates each directory. Cache, logs, and
// reports always nest under the data directory so they follow a data-dir
// override.
func materialize(dataDir, configDir string) (types.PathSet, error) {
	absData, err := filepath.Abs(dataDir)
	if err != nil {
		return types.PathSet{}, fmt.Errorf("%w: %v", types.ErrResolution, err)
	}
	absConfig, err := filepath.Abs(configDir)
	if err != nil {
		return types.PathSet{}, fmt.Errorf("%w: %v", types.ErrResolution, err)
	}

	set := types.PathSet{
		DataDir:    absData,
		ConfigDir:  absConfig,
		CacheDir:   filepath.Join(absData, "cache"),
		LogsDir:    filepath.Join(absData, "logs"),
		ReportsDir: filepath.Join(absData, "reports"),
	}

	for _, dir := range set.Dirs() {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return types.PathSet{}, fmt.Errorf("%w: create %s: %v", types.ErrResolution, dir, err)
		}
	}
	return set, nil
}
