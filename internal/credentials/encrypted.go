package credentials

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/denisbrodbeck/machineid"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/pbkdf2"

	"github.com/mesh-intelligence/presswatch/internal/fsutil"
	"github.com/mesh-intelligence/presswatch/pkg/types"
)

// Key-derivation parameters. The salt is fixed: the entropy comes from the
// machine identifier, which persists across reinstalls on the same machine
// but not across machines.
const (
	keyNamespace  = "presswatch.credentials"
	keySalt       = "presswatch-credential-file-v1"
	keyIterations = 10000
)

// machineSeed returns the stable machine-identifying secret the file key
// is derived from. Overridable in tests and replaceable when the host
// cannot expose a machine ID.
var machineSeed = func() (string, error) {
	// ProtectedID is an HMAC of the machine ID keyed by the namespace, so
	// the raw host identifier never leaves this function.
	return machineid.ProtectedID(keyNamespace)
}

var errNotInTier = errors.New("record not in tier")

// encryptedTier stores secrets in a single NaCl secretbox-sealed JSON
// document. The 24-byte nonce is prepended to the ciphertext, so sealing
// the same payload twice produces different files.
type encryptedTier struct {
	path string
}

func (encryptedTier) name() types.Tier { return types.EncryptedFile }

func (t *encryptedTier) put(service, account, secret string) error {
	key, err := t.key()
	if err != nil {
		return err
	}
	records, err := t.load(key)
	if err != nil {
		// A file sealed by another machine's key is unreadable; a write
		// replaces it rather than failing forever.
		records = map[string]string{}
	}
	records[credKey(service, account)] = secret
	return t.save(key, records)
}

func (t *encryptedTier) get(service, account string) (string, error) {
	key, err := t.key()
	if err != nil {
		return "", err
	}
	records, err := t.load(key)
	if err != nil {
		return "", err
	}
	secret, ok := records[credKey(service, account)]
	if !ok {
		return "", errNotInTier
	}
	return secret, nil
}

func (t *encryptedTier) del(service, account string) error {
	key, err := t.key()
	if err != nil {
		return nil
	}
	records, err := t.load(key)
	if err != nil {
		return nil
	}
	if _, ok := records[credKey(service, account)]; !ok {
		return nil
	}
	delete(records, credKey(service, account))
	return t.save(key, records)
}

// key derives the 32-byte symmetric key from the machine seed.
func (t *encryptedTier) key() (*[32]byte, error) {
	seed, err := machineSeed()
	if err != nil {
		return nil, fmt.Errorf("derive machine key: %w", err)
	}
	var key [32]byte
	copy(key[:], pbkdf2.Key([]byte(seed), []byte(keySalt), keyIterations, 32, sha256.New))
	return &key, nil
}

func (t *encryptedTier) load(key *[32]byte) (map[string]string, error) {
	data, err := os.ReadFile(t.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) < 24 {
		return nil, errors.New("credential file truncated")
	}

	var nonce [24]byte
	copy(nonce[:], data[:24])
	plain, ok := secretbox.Open(nil, data[24:], &nonce, key)
	if !ok {
		return nil, errors.New("credential file cannot be decrypted on this machine")
	}

	var records map[string]string
	if err := json.Unmarshal(plain, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (t *encryptedTier) save(key *[32]byte, records map[string]string) error {
	plain, err := json.Marshal(records)
	if err != nil {
		return err
	}

	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return err
	}
	sealed := secretbox.Seal(nonce[:], plain, &nonce, key)
	return fsutil.WriteFileAtomic(t.path, sealed, 0o600)
}
