package types

import (
	"encoding/json"
	"errors"
)

// Tier identifies which storage strategy holds a credential. Tier selection
// happens at write time and is never a user choice; the same secret may move
// between tiers as facilities appear or disappear across restarts.
type Tier int

const (
	// NativeStore is the host OS's secure-credential facility
	// (Keychain, Credential Manager, Secret Service).
	NativeStore Tier = iota

	// EncryptedFile is a locally encrypted file keyed by a
	// machine-derived secret.
	EncryptedFile

	// PlaintextFile is a restricted-permission plaintext file. Last
	// resort, always surfaced to the user as a security warning.
	PlaintextFile
)

// String returns the tier name used in logs and CLI output.
func (t Tier) String() string {
	switch t {
	case NativeStore:
		return "native-store"
	case EncryptedFile:
		return "encrypted-file"
	default:
		return "plaintext-file"
	}
}

// MarshalJSON encodes the tier as its name rather than its ordinal.
func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// CredentialRecord describes one stored secret. At most one active record
// exists per (Service, Account) pair.
type CredentialRecord struct {
	Service string `json:"service"`
	Account string `json:"account"`
	Secret  string `json:"secret"`
	Tier    Tier   `json:"tier"`
}

// Credential storage errors.
var (
	// ErrCredentialNotFound means no tier yielded a value. Recoverable:
	// the caller prompts for re-entry.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrCredentialWrite means every storage tier failed, which is only
	// possible when the config directory itself is not writable.
	ErrCredentialWrite = errors.New("all credential storage tiers failed")
)
