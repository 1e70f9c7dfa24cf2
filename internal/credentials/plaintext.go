package credentials

import (
	"encoding/json"
	"os"

	"github.com/mesh-intelligence/presswatch/internal/fsutil"
	"github.com/mesh-intelligence/presswatch/pkg/types"
)

// plaintextTier is the last resort: a JSON document with owner-only
// permissions. Every write to it is accompanied by a user-visible warning
// from the store.
type plaintextTier struct {
	path string
}

func (plaintextTier) name() types.Tier { return types.PlaintextFile }

func (t *plaintextTier) put(service, account, secret string) error {
	records, err := t.load()
	if err != nil {
		return err
	}
	records[credKey(service, account)] = secret
	return t.save(records)
}

func (t *plaintextTier) get(service, account string) (string, error) {
	records, err := t.load()
	if err != nil {
		return "", err
	}
	secret, ok := records[credKey(service, account)]
	if !ok {
		return "", errNotInTier
	}
	return secret, nil
}

func (t *plaintextTier) del(service, account string) error {
	records, err := t.load()
	if err != nil {
		return nil
	}
	if _, ok := records[credKey(service, account)]; !ok {
		return nil
	}
	delete(records, credKey(service, account))
	return t.save(records)
}

func (t *plaintextTier) load() (map[string]string, error) {
	data, err := os.ReadFile(t.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var records map[string]string
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (t *plaintextTier) save(records map[string]string) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(t.path, data, 0o600)
}
