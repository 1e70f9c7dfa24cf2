// Package config materializes the bundled default configuration documents
// into the resolved config directory and loads them into memory. A document
// the user has already written is never read back, validated, or
// overwritten here; user edits are sacrosanct.
package config

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/presswatch/internal/fsutil"
	"github.com/mesh-intelligence/presswatch/pkg/types"
)

//go:embed defaults
var defaultsFS embed.FS

// fileMode is the permission for every materialized document.
const fileMode = 0o600

// Document names accepted by Ensure.
const (
	DocSettings = "settings"
	DocSources  = "sources"
)

// documents maps logical document names to their file names under the
// config directory and the bundled defaults.
var documents = map[string]string{
	DocSettings: "settings.yaml",
	DocSources:  "sources.yaml",
}

// Ensure guarantees configDir/<document> exists and returns its path. An
// existing file is returned untouched. An absent file is created from the
// bundled default with an atomic write. An unknown document name wraps
// ErrMissingDefault: that is a programmer error, not a runtime condition.
func Ensure(configDir, name string) (string, error) {
	fileName, ok := documents[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", types.ErrMissingDefault, name)
	}

	path := filepath.Join(configDir, fileName)
	if fsutil.FileExists(path) {
		return path, nil
	}

	data, err := defaultsFS.ReadFile("defaults/" + fileName)
	if err != nil {
		return "", fmt.Errorf("%w: %q", types.ErrMissingDefault, name)
	}
	if err := fsutil.WriteFileAtomic(path, data, fileMode); err != nil {
		return "", fmt.Errorf("materialize %s: %w", name, err)
	}
	return path, nil
}

// EnsurePrompts materializes every bundled prompt template that is absent
// from configDir/prompts. Existing prompt files are left untouched.
func EnsurePrompts(configDir string) error {
	promptsDir := filepath.Join(configDir, "prompts")
	if err := os.MkdirAll(promptsDir, 0o700); err != nil {
		return fmt.Errorf("create prompts dir: %w", err)
	}

	entries, err := fs.ReadDir(defaultsFS, "defaults/prompts")
	if err != nil {
		return fmt.Errorf("%w: prompts", types.ErrMissingDefault)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(promptsDir, entry.Name())
		if fsutil.FileExists(path) {
			continue
		}
		data, err := defaultsFS.ReadFile("defaults/prompts/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read bundled prompt %s: %w", entry.Name(), err)
		}
		if err := fsutil.WriteFileAtomic(path, data, fileMode); err != nil {
			return fmt.Errorf("materialize prompt %s: %w", entry.Name(), err)
		}
	}
	return nil
}
