/*
Package app links together all the various components
to construct a standalone custody vault.
*/
package app

import (
	"fmt"
	"math/big"
	"path/filepath"
	"strings"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store/iavl"
	"github.com/iov-one/custody/x/utils"
	"github.com/iov-one/custody/x/wallet"
	"github.com/tendermint/tendermint/libs/log"
)

// Chain returns a chain of decorators, to handle logging and recovery and
// to isolate the changes of a failed message.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching all wallet messages.
func Router() *app.Router {
	r := app.NewRouter()
	wallet.RegisterRoutes(r)
	return r
}

// Stack wires up a standard router with a standard decorator chain.
func Stack() custody.Handler {
	return Chain().WithHandler(Router())
}

// Initializers returns all initializers run by the genesis.
func Initializers() custody.Initializer {
	return app.ChainInitializers(wallet.Initializer{})
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (iavl.CommitStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return iavl.CommitStore{}, fmt.Errorf("invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path))
}

// Custody exposes the wallet operations of a vault as typed calls.
type Custody struct {
	vault *app.Vault
}

// New returns a custody vault operating on the given store.
func New(store custody.CommitKVStore, logger log.Logger) (*Custody, error) {
	v, err := app.NewVault(store, Stack(), Initializers())
	if err != nil {
		return nil, err
	}
	return &Custody{vault: v.WithLogger(logger)}, nil
}

// InitChain applies the genesis. It succeeds only once per store.
func (c *Custody) InitChain(gen *app.Genesis) (custody.CommitID, error) {
	return c.vault.InitChain(gen)
}

// ID returns the vault id set by the genesis.
func (c *Custody) ID() string {
	return c.vault.ID()
}

// Version returns the last committed version of the state.
func (c *Custody) Version() (custody.CommitID, error) {
	return c.vault.LatestVersion()
}

// Deposit credits the vault and returns the new balance.
func (c *Custody) Deposit(ctx custody.Context, caller custody.Address, amount *big.Int) (*big.Int, error) {
	res, err := c.vault.Deliver(ctx, caller, &wallet.DepositMsg{Amount: wallet.NewAmount(amount)})
	if err != nil {
		return nil, err
	}
	var b wallet.Balance
	if err := b.Unmarshal(res.Data); err != nil {
		return nil, errors.Wrap(err, "balance")
	}
	return b.Amount.BigInt(), nil
}

// CreateTransfer proposes a transfer on behalf of an owner. The proposer
// approval is recorded with the transfer.
func (c *Custody) CreateTransfer(ctx custody.Context, caller, destination custody.Address, amount *big.Int) (*wallet.Transfer, error) {
	return c.deliverTransfer(ctx, caller, &wallet.CreateTransferMsg{
		Destination: destination,
		Amount:      wallet.NewAmount(amount),
	})
}

// ApproveTransfer records the approval of an owner. The returned transfer
// is executed if this approval reached the quorum.
func (c *Custody) ApproveTransfer(ctx custody.Context, caller custody.Address, id uint64) (*wallet.Transfer, error) {
	return c.deliverTransfer(ctx, caller, &wallet.ApproveTransferMsg{TransferID: id})
}

func (c *Custody) deliverTransfer(ctx custody.Context, caller custody.Address, msg custody.Msg) (*wallet.Transfer, error) {
	res, err := c.vault.Deliver(ctx, caller, msg)
	if err != nil {
		return nil, err
	}
	var t wallet.Transfer
	if err := t.Unmarshal(res.Data); err != nil {
		return nil, errors.Wrap(err, "transfer")
	}
	return &t, nil
}

// Check runs the message as the caller would, without persisting anything.
func (c *Custody) Check(ctx custody.Context, caller custody.Address, msg custody.Msg) error {
	_, err := c.vault.Check(ctx, caller, msg)
	return err
}

// Balance returns the current balance of the vault.
func (c *Custody) Balance() (balance *big.Int, err error) {
	err = c.vault.Query(func(db custody.ReadOnlyKVStore) error {
		balance, err = wallet.QueryBalance(db)
		return err
	})
	return balance, err
}

// Owners returns the owner roster and the quorum.
func (c *Custody) Owners() (roster *wallet.Roster, err error) {
	err = c.vault.Query(func(db custody.ReadOnlyKVStore) error {
		roster, err = wallet.QueryOwners(db)
		return err
	})
	return roster, err
}

// Transfer returns a transfer by id.
func (c *Custody) Transfer(id uint64) (t *wallet.Transfer, err error) {
	err = c.vault.Query(func(db custody.ReadOnlyKVStore) error {
		t, err = wallet.QueryTransfer(db, id)
		return err
	})
	return t, err
}

// Transfers returns all transfers in id order, or only those not executed
// yet if pendingOnly is set.
func (c *Custody) Transfers(pendingOnly bool) (ts []*wallet.Transfer, err error) {
	err = c.vault.Query(func(db custody.ReadOnlyKVStore) error {
		ts, err = wallet.QueryTransfers(db, pendingOnly)
		return err
	})
	return ts, err
}
