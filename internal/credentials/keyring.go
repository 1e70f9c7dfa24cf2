package credentials

import (
	"errors"

	"github.com/zalando/go-keyring"

	"github.com/mesh-intelligence/presswatch/pkg/types"
)

// keyringNamespace prefixes every service name handed to the host
// facility so presswatch entries cannot collide with other applications.
const keyringNamespace = "presswatch:"

// keyringAPI holds the native-store functions. Overridable in tests to
// fake the facility or simulate its absence.
var keyringAPI = struct {
	set func(service, user, secret string) error
	get func(service, user string) (string, error)
	del func(service, user string) error
}{
	set: keyring.Set,
	get: keyring.Get,
	del: keyring.Delete,
}

// nativeTier stores secrets in the host OS's secure-credential facility:
// Keychain on macOS, Credential Manager on Windows, Secret Service on
// Linux.
type nativeTier struct{}

func (nativeTier) name() types.Tier { return types.NativeStore }

func (nativeTier) put(service, account, secret string) error {
	return keyringAPI.set(keyringNamespace+service, account, secret)
}

func (nativeTier) get(service, account string) (string, error) {
	return keyringAPI.get(keyringNamespace+service, account)
}

func (nativeTier) del(service, account string) error {
	err := keyringAPI.del(keyringNamespace+service, account)
	if err != nil && errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
