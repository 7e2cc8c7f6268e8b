package wallet

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

// Initializer fulfils the custody.Initializer interface to load the owner
// roster from the genesis file.
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis will parse the configuration from genesis and save it to
// the database. The configuration is read from the "conf" section:
//
//   "conf": {
//     "wallet": {
//       "owners": ["<address>", ...],
//       "quorum": 2
//     }
//   }
//
// An optional "wallet" section can credit an initial balance:
//
//   "wallet": {"balance": "1000"}
func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, packageName, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}

	var state struct {
		Balance string `json:"balance"`
	}
	if err := opts.ReadOptions("wallet", &state); err != nil {
		return errors.Wrap(errors.ErrInput, "cannot read wallet state")
	}
	if state.Balance == "" {
		return nil
	}
	amount, err := ParseAmount(state.Balance)
	if err != nil {
		return errors.Wrap(err, "initial balance")
	}
	if _, err := NewLedger().Deposit(db, amount); err != nil {
		return errors.Wrap(err, "initial balance")
	}
	return nil
}
