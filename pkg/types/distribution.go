package types

import (
	"errors"
	"path/filepath"
)

// Mode identifies how the running process was distributed. It governs every
// path and storage decision and is fixed for the lifetime of a process.
type Mode int

const (
	// Production is the default: an installed application using the host
	// OS's per-user application-data conventions.
	Production Mode = iota

	// Development is a source checkout; everything lives inside the
	// checkout so the tree stays self-contained.
	Development

	// Portable is a removable-media install; everything lives beside the
	// executable so the install is removable by deleting one directory.
	Portable
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case Development:
		return "development"
	case Portable:
		return "portable"
	default:
		return "production"
	}
}

// DatabaseFileName is the primary database file under the data directory.
const DatabaseFileName = "presswatch.db"

// PathSet holds the five resolved application directories. All paths are
// absolute, and every directory exists with owner-only permissions by the
// time a PathSet is handed to a caller.
type PathSet struct {
	DataDir    string
	ConfigDir  string
	CacheDir   string
	LogsDir    string
	ReportsDir string
}

// DatabasePath returns the primary database file path under DataDir.
func (p PathSet) DatabasePath() string {
	return filepath.Join(p.DataDir, DatabaseFileName)
}

// PromptsDir returns the prompt templates directory under ConfigDir.
func (p PathSet) PromptsDir() string {
	return filepath.Join(p.ConfigDir, "prompts")
}

// Dirs returns the five directories in creation order.
func (p PathSet) Dirs() []string {
	return []string{p.DataDir, p.ConfigDir, p.CacheDir, p.LogsDir, p.ReportsDir}
}

// Path resolution and materialization errors.
var (
	// ErrResolution indicates a resolved directory could not be created or
	// accessed. Fatal: a bad path must not be used.
	ErrResolution = errors.New("cannot resolve directory")

	// ErrMissingDefault indicates no bundled default exists for a requested
	// configuration document. Programmer error, not a runtime condition.
	ErrMissingDefault = errors.New("no bundled default for document")
)
