// Package credentials stores and recovers API secrets across three tiers:
// the host OS's native secure store, a locally encrypted file keyed by a
// machine-derived secret, and a restricted-permission plaintext file as the
// last resort. The store owns the tier policy; callers never pick a tier.
package credentials

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/mesh-intelligence/presswatch/pkg/types"
)

// File names under the config directory for the two file-backed tiers.
const (
	EncryptedFileName = "credentials.enc"
	PlaintextFileName = "credentials.json"
)

// tier is one storage strategy. All three expose the same capability and
// the store tries them in a fixed order, remembering nothing between calls.
type tier interface {
	name() types.Tier
	put(service, account, secret string) error
	get(service, account string) (string, error)
	del(service, account string) error
}

// Store is the tiered credential store rooted at a config directory.
type Store struct {
	tiers  []tier
	logger *slog.Logger
}

// NewStore returns a store whose file tiers live under configDir.
func NewStore(configDir string) *Store {
	return NewStoreWithLogger(configDir, slog.Default())
}

// NewStoreWithLogger is NewStore with an explicit logger for the
// security-degradation warning.
func NewStoreWithLogger(configDir string, logger *slog.Logger) *Store {
	return &Store{
		tiers: []tier{
			&nativeTier{},
			&encryptedTier{path: filepath.Join(configDir, EncryptedFileName)},
			&plaintextTier{path: filepath.Join(configDir, PlaintextFileName)},
		},
		logger: logger,
	}
}

// Store writes the secret to the most preferred tier that accepts it and
// reports which tier that was. On success any stale copy of the same
// (service, account) is removed from every other tier, so a secret is
// never recoverable from two tiers in inconsistent states. Landing on the
// plaintext tier is surfaced as an explicit warning, never silently.
//
// A hard error means even the plaintext tier failed, which only happens
// when the config directory itself is not writable.
func (s *Store) Store(service, account, secret string) (types.Tier, error) {
	var failures []error
	for i, t := range s.tiers {
		if err := t.put(service, account, secret); err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", t.name(), err))
			continue
		}

		for j, other := range s.tiers {
			if j == i {
				continue
			}
			// Best effort: a stale copy in an unreachable tier cannot
			// shadow the fresh write because reads prefer earlier tiers
			// only when they succeed.
			_ = other.del(service, account)
		}

		if t.name() == types.PlaintextFile {
			s.logger.Warn("secure credential storage unavailable; secret stored in plaintext",
				"service", service,
				"account", account,
				"path", t.(*plaintextTier).path)
		}
		return t.name(), nil
	}
	return 0, fmt.Errorf("%w: %w", types.ErrCredentialWrite, errors.Join(failures...))
}

// Retrieve returns the secret for (service, account), trying every tier in
// preference order regardless of where the last write landed; a record may
// have migrated between versions that gained or lost a capability.
func (s *Store) Retrieve(service, account string) (string, types.Tier, error) {
	for _, t := range s.tiers {
		secret, err := t.get(service, account)
		if err == nil {
			return secret, t.name(), nil
		}
	}
	return "", 0, fmt.Errorf("%w: %s/%s", types.ErrCredentialNotFound, service, account)
}

// Delete removes (service, account) from every tier. A tier that never
// held the record is not an error. A failed native delete is an error
// when the record is still readable there (the secret remains
// recoverable); when the facility is unreachable entirely, the failure is
// surfaced as a warning and the file tiers decide the outcome.
func (s *Store) Delete(service, account string) error {
	var failures []error
	for _, t := range s.tiers {
		err := t.del(service, account)
		if err == nil {
			continue
		}
		if t.name() == types.NativeStore {
			if _, readErr := t.get(service, account); readErr != nil {
				s.logger.Warn("native store unreachable during delete", "error", err)
				continue
			}
		}
		failures = append(failures, fmt.Errorf("%s: %w", t.name(), err))
	}
	return errors.Join(failures...)
}

// credKey builds the map key for the file-backed tiers. NUL cannot appear
// in service or account names passed through the CLI.
func credKey(service, account string) string {
	return service + "\x00" + account
}
