// Package migrate copies an existing data and config tree to a new
// resolved location and verifies the copy before marking it done. The
// source tree is never modified: removing the old location is a separate,
// explicit, user-confirmed operation.
package migrate

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/presswatch/internal/fsutil"
	"github.com/mesh-intelligence/presswatch/pkg/types"
)

// RecordFileName is the migration record persisted in the destination
// config directory once verification succeeds.
const RecordFileName = "migration.json"

// Manager runs copy-then-verify migrations.
type Manager struct {
	logger *slog.Logger
}

// NewManager returns a Manager logging progress to logger.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{logger: logger}
}

// Migrate copies source's data tree (and config tree, when it lives
// outside the data tree) into dest, preserving relative structure, then
// verifies the destination against the source by file counts and sizes.
//
// A destination data directory that already holds a database file refuses
// the copy unless force is set. The record's Verified field is true only
// after a full match; on any failure the record describes the partial
// state and the error explains it.
func (m *Manager) Migrate(source, dest types.PathSet, force bool) (*types.MigrationRecord, error) {
	record := &types.MigrationRecord{
		ID:           uuid.NewString(),
		SourceData:   source.DataDir,
		SourceConfig: source.ConfigDir,
		DestData:     dest.DataDir,
		DestConfig:   dest.ConfigDir,
		StartedAt:    time.Now().UTC(),
	}

	if !force && fsutil.FileExists(dest.DatabasePath()) {
		return record, fmt.Errorf("%w: %s", types.ErrDestinationOccupied, dest.DatabasePath())
	}

	pairs := copyPairs(source, dest)
	for _, p := range pairs {
		if err := copyTree(p.src, p.dst); err != nil {
			return record, fmt.Errorf("%w: %s: %v", types.ErrPartialCopy, p.src, err)
		}
	}

	var files int
	var bytes int64
	for _, p := range pairs {
		n, b, err := verifyTree(p.src, p.dst)
		if err != nil {
			return record, err
		}
		files += n
		bytes += b
	}

	record.Files = files
	record.Bytes = bytes
	record.Verified = true
	record.CompletedAt = time.Now().UTC()

	if err := m.persist(record); err != nil {
		// The copy is verified; a record that cannot be written only
		// loses the audit trail.
		m.logger.Warn("migration record not persisted", "error", err)
	}

	m.logger.Info("migration verified",
		"id", record.ID,
		"files", files,
		"bytes", bytes,
		"dest", dest.DataDir)
	return record, nil
}

// CleanupSource deletes an old data root after a verified migration. It is
// never called by Migrate itself; the caller must have confirmed the
// action with the user.
func CleanupSource(dir string) error {
	if dir == "" || dir == string(filepath.Separator) {
		return fmt.Errorf("refusing to remove %q", dir)
	}
	return os.RemoveAll(dir)
}

type treePair struct {
	src, dst string
}

// copyPairs returns the tree copies a migration performs. The config tree
// is copied separately only when it is not already inside the data tree.
func copyPairs(source, dest types.PathSet) []treePair {
	pairs := []treePair{{source.DataDir, dest.DataDir}}
	if !isWithin(source.ConfigDir, source.DataDir) {
		pairs = append(pairs, treePair{source.ConfigDir, dest.ConfigDir})
	}
	return pairs
}

// isWithin reports whether path is dir or nested under dir.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// copyTree recursively copies every regular file under src into dst,
// preserving relative structure and file modes.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o700)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// verifyTree compares the source and destination trees by relative path
// and size, in both directions. Content hashes are deliberately not
// computed; count and size comparison keeps verification cheap and still
// catches partial copies. The migration's own record file is excluded: a
// re-run over an earlier verified destination must still match.
func verifyTree(src, dst string) (files int, bytes int64, err error) {
	srcSizes, err := treeSizes(src)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: scan source: %v", types.ErrVerificationMismatch, err)
	}
	dstSizes, err := treeSizes(dst)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: scan destination: %v", types.ErrVerificationMismatch, err)
	}

	for rel := range dstSizes {
		if filepath.Base(rel) == RecordFileName {
			continue
		}
		if _, ok := srcSizes[rel]; !ok {
			return 0, 0, fmt.Errorf("%w: %s not present in source", types.ErrVerificationMismatch, rel)
		}
	}
	for rel, size := range srcSizes {
		got, ok := dstSizes[rel]
		if !ok {
			return 0, 0, fmt.Errorf("%w: %s missing from destination", types.ErrVerificationMismatch, rel)
		}
		if got != size {
			return 0, 0, fmt.Errorf("%w: %s is %d bytes, want %d",
				types.ErrVerificationMismatch, rel, got, size)
		}
		files++
		bytes += size
	}
	return files, bytes, nil
}

// treeSizes maps each regular file's path relative to root to its size.
func treeSizes(root string) (map[string]int64, error) {
	sizes := map[string]int64{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		sizes[rel] = info.Size()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sizes, nil
}

// persist writes the verified record into the destination config dir.
func (m *Manager) persist(record *types.MigrationRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(filepath.Join(record.DestConfig, RecordFileName), data, 0o600)
}
