package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"math/big"
	"os"
	"path/filepath"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/wallet"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = usage(fl, `
Create a new vault in the home directory.

The owner roster is fixed at creation and cannot be changed afterwards. The
generated genesis file is kept in the home directory. This command fails if
the vault already exists.
`)
	var (
		homeFl    = homeFlag(fl)
		vaultIDFl = fl.String("vault-id", "custody", "Vault identifier, 6 to 25 characters.")
		quorumFl  = fl.Uint("quorum", 0, "Number of owner approvals required to execute a transfer. Majority of owners if not set.")
		ownersFl  addressesFlag
		balanceFl amountFlag
	)
	fl.Var(&ownersFl, "owner", "Owner address. Repeat the flag for every owner. At least two owners are required.")
	fl.Var(&balanceFl, "balance", "Optional initial balance.")
	fl.Parse(args)

	if err := os.MkdirAll(*homeFl, 0700); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create home directory: %s", err)
	}
	genPath := filepath.Join(*homeFl, genesisFile)
	if _, err := os.Stat(genPath); !os.IsNotExist(err) {
		return errors.Wrapf(errors.ErrDuplicate, "genesis file %q already exists", genPath)
	}

	raw, err := genesisJSON(*vaultIDFl, ownersFl, uint32(*quorumFl), balanceFl.val)
	if err != nil {
		return err
	}
	if err := ioutil.WriteFile(genPath, raw, 0600); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot write genesis: %s", err)
	}
	if err := writeDefaultConfig(*homeFl); err != nil {
		return err
	}

	gen, err := app.LoadGenesis(genPath)
	if err != nil {
		return err
	}
	c, closeVault, err := openVault(*homeFl)
	if err != nil {
		return err
	}
	defer closeVault()

	if _, err := c.InitChain(gen); err != nil {
		// A failed genesis leaves no state, so the file can be fixed and
		// the command repeated.
		os.Remove(genPath)
		return err
	}
	roster, err := c.Owners()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "vault %s created, %d owners, quorum %d\n",
		c.ID(), len(roster.Identities), roster.Quorum)
	return err
}

// genesisJSON returns the genesis document of a new vault.
func genesisJSON(vaultID string, owners []custody.Address, quorum uint32, balance *big.Int) ([]byte, error) {
	conf, err := json.Marshal(map[string]interface{}{
		"wallet": wallet.Configuration{Owners: owners, Quorum: quorum},
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	opts := custody.Options{"conf": conf}
	if balance != nil {
		state, err := json.Marshal(map[string]string{"balance": balance.String()})
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
		opts["wallet"] = state
	}
	raw, err := json.MarshalIndent(app.Genesis{VaultID: vaultID, AppOptions: opts}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

const defaultConfig = `# Logging level: debug, info, error or none.
log_level = "error"

# Name of the database, stored in the home directory.
db_name = "custody"
`

func writeDefaultConfig(home string) error {
	path := filepath.Join(home, configFile)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := ioutil.WriteFile(path, []byte(defaultConfig), 0600); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot write config: %s", err)
	}
	return nil
}
