package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// layout is the per-OS strategy for production-mode directory placement.
// One implementation per supported GOOS; tests select implementations
// directly instead of branching on the host.
type layout interface {
	dataDir() (string, error)
	configDir() (string, error)
}

// platformDir holds platform-detection functions that can be overridden
// in tests.
var platformDir = struct {
	goos    string
	homeDir func() (string, error)
}{
	goos:    runtime.GOOS,
	homeDir: os.UserHomeDir,
}

// platformLayout returns the layout for the current host OS.
func platformLayout() layout {
	switch platformDir.goos {
	case "darwin":
		return darwinLayout{}
	case "windows":
		return windowsLayout{}
	default:
		return linuxLayout{}
	}
}

// linuxLayout follows the XDG base-directory convention.
//
// Data:   $XDG_DATA_HOME/presswatch   (fallback ~/.local/share/presswatch)
// Config: $XDG_CONFIG_HOME/presswatch (fallback ~/.config/presswatch)
type linuxLayout struct{}

func (linuxLayout) dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppDirName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", AppDirName), nil
}

func (linuxLayout) configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppDirName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppDirName), nil
}

// darwinLayout uses the Application Support tree for data and the
// Preferences tree for configuration.
type darwinLayout struct{}

func (darwinLayout) dataDir() (string, error) {
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "Application Support", AppDirName), nil
}

func (darwinLayout) configDir() (string, error) {
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "Preferences", AppDirName), nil
}

// windowsLayout uses the roaming application-data root. Windows does not
// distinguish data from preferences, so configuration nests under the
// data directory.
type windowsLayout struct{}

func (windowsLayout) dataDir() (string, error) {
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, AppDirName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "AppData", "Roaming", AppDirName), nil
}

func (windowsLayout) configDir() (string, error) {
	data, err := windowsLayout{}.dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(data, "config"), nil
}
