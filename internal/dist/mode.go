// Package dist detects the distribution mode of the running process:
// a source checkout (development), a portable removable-media install, or a
// regular installed application (production). Detection is a pure function
// of environment variables and filesystem markers, re-evaluated at each
// process start.
package dist

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/presswatch/pkg/types"
)

// Environment variable names for mode overrides.
const (
	EnvDev      = "PRESSWATCH_DEV"
	EnvPortable = "PRESSWATCH_PORTABLE"
)

// MarkerFileName is the zero-byte sentinel whose presence beside the
// executable selects portable mode. Its content is ignored.
const MarkerFileName = "PORTABLE"

// probe holds process-location functions that can be overridden in tests.
var probe = struct {
	executableDir func() (string, error)
	workingDir    func() (string, error)
}{
	executableDir: defaultExecutableDir,
	workingDir:    os.Getwd,
}

func defaultExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// Detect returns the distribution mode for the current process.
//
// Precedence, first match wins:
//  1. PRESSWATCH_DEV set truthy
//  2. version-control metadata beside the process (working or
//     executable directory)
//  3. PRESSWATCH_PORTABLE set truthy
//  4. PORTABLE marker file beside the executable
//  5. production
//
// Absence of every signal is not an error; production is the default.
func Detect() types.Mode {
	if envTruthy(os.Getenv(EnvDev)) {
		return types.Development
	}
	if root, ok := SourceRoot(); ok && root != "" {
		return types.Development
	}
	if envTruthy(os.Getenv(EnvPortable)) {
		return types.Portable
	}
	if dir, err := probe.executableDir(); err == nil {
		if fileExists(filepath.Join(dir, MarkerFileName)) {
			return types.Portable
		}
	}
	return types.Production
}

// SourceRoot returns the checkout directory when the working directory or
// the executable's directory holds a .git metadata directory. Ancestors
// are not searched: an installed binary run somewhere inside an unrelated
// repository is not a checkout of this application. The second return is
// false when no checkout is found.
func SourceRoot() (string, bool) {
	for _, location := range []func() (string, error){probe.workingDir, probe.executableDir} {
		dir, err := location()
		if err != nil {
			continue
		}
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir, true
		}
	}
	return "", false
}

// ExecutableDir returns the directory holding the running executable.
func ExecutableDir() (string, error) {
	return probe.executableDir()
}

// EnablePortable creates the PORTABLE marker beside the executable. The
// mode change takes effect at the next process start.
func EnablePortable() (string, error) {
	dir, err := probe.executableDir()
	if err != nil {
		return "", err
	}
	marker := filepath.Join(dir, MarkerFileName)
	f, err := os.OpenFile(marker, os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return "", err
	}
	return marker, f.Close()
}

// DisablePortable removes the PORTABLE marker. Removing an absent marker
// is not an error.
func DisablePortable() error {
	dir, err := probe.executableDir()
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(dir, MarkerFileName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// envTruthy reports whether an override variable is set to an affirmative
// value. Matches "1", "true", and "yes", case-insensitively.
func envTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
