package app

import (
	"encoding/json"
	"io/ioutil"
	"regexp"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Genesis file format
type Genesis struct {
	VaultID    string          `json:"vault_id"`
	AppOptions custody.Options `json:"app_options"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "loading genesis file: %s", err)
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "unmarshaling genesis file: %s", err)
	}
	if !IsValidVaultID(gen.VaultID) {
		return nil, errors.Wrapf(errors.ErrInput, "invalid vault id %q", gen.VaultID)
	}
	return &gen, nil
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...custody.Initializer) custody.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []custody.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts custody.Options, kv custody.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}

var isVaultID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,25}$`).MatchString

// IsValidVaultID returns true if the vault id has an acceptable format.
func IsValidVaultID(id string) bool {
	return isVaultID(id)
}

const vaultIDKey = "_vault:id"

// loadVaultID returns the vault id stored if any
func loadVaultID(kv custody.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(vaultIDKey))
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(v), nil
}

// saveVaultID stores a vault id in the kv store.
// Returns error if already set, or invalid name
func saveVaultID(kv custody.KVStore, id string) error {
	if !IsValidVaultID(id) {
		return errors.Wrapf(errors.ErrInput, "vault id: %q", id)
	}
	switch current, err := loadVaultID(kv); {
	case err != nil:
		return err
	case current != "":
		return errors.Wrapf(errors.ErrState, "vault %q already initialized", current)
	}
	if err := kv.Set([]byte(vaultIDKey), []byte(id)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
