package wallet

import (
	"encoding/json"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

const (
	// packageName is the key of the configuration in the genesis "conf"
	// section and in the database.
	packageName = "wallet"

	// MaxOwners is the bit width of the owner encoding.
	MaxOwners = 64

	// MinQuorum prevents a single owner from moving funds alone.
	MinQuorum = 2
)

// DefaultQuorum returns the quorum used when the configuration does not
// declare one, a strict majority of n owners.
func DefaultQuorum(n int) uint32 {
	q := uint32(n/2 + 1)
	if q < MinQuorum {
		q = MinQuorum
	}
	return q
}

// Validate ensures the roster holds between two and MaxOwners unique valid
// addresses and that the quorum can be reached by more than one owner.
func (c *Configuration) Validate() error {
	switch n := len(c.Owners); {
	case n < MinQuorum:
		return errors.Wrapf(errors.ErrModel, "at least %d owners required", MinQuorum)
	case n > MaxOwners:
		return errors.Wrapf(errors.ErrModel, "at most %d owners allowed", MaxOwners)
	}
	seen := make(map[string]struct{}, len(c.Owners))
	for i, o := range c.Owners {
		if err := o.Validate(); err != nil {
			return errors.Wrapf(err, "owner %d", i)
		}
		if _, ok := seen[string(o)]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "owner %s", o)
		}
		seen[string(o)] = struct{}{}
	}
	if c.Quorum < MinQuorum || int(c.Quorum) > len(c.Owners) {
		return errors.Wrapf(errors.ErrModel,
			"quorum %d must be between %d and %d", c.Quorum, MinQuorum, len(c.Owners))
	}
	return nil
}

// UnmarshalJSON decodes the genesis representation. A missing quorum is
// replaced with DefaultQuorum.
func (c *Configuration) UnmarshalJSON(raw []byte) error {
	type configuration Configuration
	var conf configuration
	if err := json.Unmarshal(raw, &conf); err != nil {
		return err
	}
	if conf.Quorum == 0 {
		conf.Quorum = DefaultQuorum(len(conf.Owners))
	}
	*c = Configuration(conf)
	return nil
}

// LoadConfiguration returns the configuration stored in the database.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, packageName, &conf); err != nil {
		return nil, errors.Wrap(err, "wallet configuration")
	}
	return &conf, nil
}

// loadRegistry returns the owner registry and quorum of the vault.
func loadRegistry(db custody.ReadOnlyKVStore) (*OwnerRegistry, uint32, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, 0, err
	}
	reg, err := NewOwnerRegistry(conf.Owners)
	if err != nil {
		return nil, 0, err
	}
	return reg, conf.Quorum, nil
}
